// Command fcast simulates debt payoff, projects FIRE targets and forecasts
// cash flow from a local ledger.
package main

import "github.com/theirongolddev/fcast/cmd"

func main() {
	cmd.Execute()
}
