package main

import (
	"github.com/okynos/localchat/cmd"
)

func main() {
	cmd.Execute()
}
