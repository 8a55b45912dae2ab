// main.go
package main

import (
	"movie-ratings/cmd"
)

func main() {
	cmd.Execute()
}
