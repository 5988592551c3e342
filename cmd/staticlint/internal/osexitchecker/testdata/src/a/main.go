package main

import (
	"fmt"
	"os"
)

func helper() {
	os.Exit(2)
}

func main() {
	defer fmt.Println("cleanup")
	if len(os.Args) > 3 {
		os.Exit(1) // want "calling os.Exit in main package main func"
	}
	func() {
		os.Exit(3)
	}()
	helper()
}
