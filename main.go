package main

import "github.com/financiallyruined/trimtui/cmd"

func main() {
	cmd.Execute()
}
