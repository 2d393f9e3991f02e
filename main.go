package main

import (
	"github.com/biosecret/go-todo/app"
)

//	@title						Todo API
//	@version					1.0
//	@description				Per-user todo lists behind bearer token sessions.
//	@BasePath					/api
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization

func main() {
	// setup and run app
	err := app.SetupAndRunApp()
	if err != nil {
		panic(err)
	}
}
