// cmd/bonusctl/main.go
package main

import "bonus-service/internal/cli"

func main() {
	cli.Execute()
}
