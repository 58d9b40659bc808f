// @title           undang API
// @version         1.0
// @description     Wedding invitation authoring and publishing service. Authenticate with a Personal Access Token.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerToken
// @in              header
// @name            Authorization
// @description     Type "Bearer" followed by a space and your API token. Example: "Bearer ud_xxx"
package api
