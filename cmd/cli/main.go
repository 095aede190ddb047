package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "auth":
		err = handleAuth(args)
	case "project":
		err = handleProject(args)
	case "worker", "expense", "income", "workday":
		err = handleRecord(command, args)
	case "report":
		err = handleReport(args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Sitebook CLI

Usage:
  sitebook <command> [options]

Commands:
  auth      register, login, logout, who
  project   list, create, show, status
  worker    list, add
  expense   list, add
  income    list, add
  workday   list, add
  report    financial [-period monthly|yearly] [-project ID], projects
  help      Show this help message

Environment Variables:
  SITEBOOK_API    API endpoint (default: http://localhost:8080/api)

Examples:
  sitebook auth register -username sami -password pass -name "Sami K" -phone 0500000000 -company Acme -company-number C-1
  sitebook auth login -login sami -password pass
  sitebook project create -name "Olive Towers" -type building -address "12 Harbour St" -phone 0500000001 -total 500000 -sections foundation:40,walls:60
  sitebook income add -project <id> -with-tax 29250 -tax 17
  sitebook report financial -period monthly
`)
}
