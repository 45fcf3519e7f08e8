// Copyright 2018-2023 CERN
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// In applying this license, CERN does not waive the privileges and immunities
// granted to it by virtue of its status as an Intergovernmental Organization
// or submit itself to any jurisdiction.

package cmd

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"

	"github.com/cs3org/nirvana/service"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	log    *zerolog.Logger
	config *Config
)

var globalFlags = struct {
	Config string
}{}

var rootCmd = &cobra.Command{
	Use:   "nirvanad",
	Short: "Run the nirvana package registry.",
	Long:  "An HTTP service hosting package metadata: versioned releases, per-platform variants and their signed checksums.",
	Run: func(cmd *cobra.Command, args []string) {
		config.Nirvana.Registry.Log = log
		s, err := service.New(&config.Nirvana)
		if err != nil {
			log.Fatal().Err(err).Send()
		}

		c := cron.New()
		if config.Nirvana.Registry.CategoriesRepository != "" {
			sync := func() {
				if err := s.Registry().SyncCategories(log.WithContext(context.Background())); err != nil {
					log.Error().Err(err).Msg("error syncing categories")
				}
			}
			if _, err := c.AddFunc("@every 6h", sync); err != nil {
				log.Fatal().Err(err).Send()
			}
			c.Start()
			go sync()
		}

		handler := service.RequestLoggerMiddleware(log,
			service.RecoverFromPanicMiddleware(log, s.Handler()))

		server := http.Server{
			Addr:    config.HTTP.Address,
			Handler: handler,
		}

		trapSignals(&server, s)
		log.Info().Str("address", config.HTTP.Address).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Send()
		}
		c.Stop()
	},
}

func trapSignals(server *http.Server, closable ...io.Closer) {
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint
		if err := server.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("error shutting down http server")
		}
		for _, c := range closable {
			if err := c.Close(); err != nil {
				log.Error().Err(err).Send()
			}
		}
	}()
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.Config, "config", "c", "/etc/nirvana/config.toml", "config path")
	cobra.OnInitialize(func() {
		initConfig(globalFlags.Config)
		if err := initLogger(&config.Log); err != nil {
			cobra.CheckErr(err)
		}
	})

	err := viper.BindPFlags(rootCmd.Flags())
	cobra.CheckErr(err)
}
