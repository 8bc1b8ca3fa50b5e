// Command weather runs the city weather proxy and its terminal presenter.
//
// Usage:
//
//	weather serve             # run the proxy HTTP server
//	weather get [city]        # print one reading from a running proxy
//	weather dashboard         # interactive search against a running proxy
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "weather",
		Short:         "City weather proxy and presenter",
		Long:          "Proxies current-weather lookups to OpenWeatherMap and renders them as a dashboard.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newGetCmd(), newDashboardCmd())
	return root
}
