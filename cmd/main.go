package main

import (
	"github.com/MarkCopeland8889/nutrisnap/config"
	"github.com/MarkCopeland8889/nutrisnap/routes"
	"github.com/MarkCopeland8889/nutrisnap/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()
	r := routes.SetupRouter()
	r.Run(":8080")
}
