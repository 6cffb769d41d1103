package cli

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	configx "github.com/tanakrit-w/giftwise/pkg/config"
	serverx "github.com/tanakrit-w/giftwise/server"
)

type serverConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat endpoint",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}

	srvCfg := configx.MustNew[serverConfig]("")
	handler := serverx.New(a.agent)

	addr := ":" + srvCfg.Port
	log.Info().Str("addr", addr).Msg("giftwise listening")
	return http.ListenAndServe(addr, handler)
}
