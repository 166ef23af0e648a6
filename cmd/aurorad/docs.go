package main

// General API documentation for swaggo. Run `swag init -g cmd/aurorad/docs.go` to regenerate docs.
//
// @title           aurorad API
// @version         1.0
// @description     HTTP API for serving a pre-trained regression model.
//
// @contact.name   aurorad maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
