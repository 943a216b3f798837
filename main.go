package main

import "github.com/venkatramks/legal-ai-frontend/cmd"

func main() {
	cmd.Execute()
}
