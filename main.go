package main

import "club-management-system/cmd/server"

func main() {
	server.Init()
	server.Run()
}
