// Package docs provides generated OpenAPI documentation.
//
// Takeoff API
//
//	@title			Takeoff API
//	@version		1.0
//	@description	Electrical drawing analysis API for panel, circuit and conduit takeoffs.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/fieldwise/takeoff
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http https
package docs

//go:generate swag init -g ../cmd/takeoff/serve.go -o ./swagger --parseDependency --parseInternal
