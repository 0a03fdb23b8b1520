package main

import (
	"fmt"

	"aura/internal/ipc"
)

func main() {
	err := ipc.SendCommand("trigger")
	if err != nil {
		fmt.Println("aura-daemon not running:", err)
		return
	}
}
