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
	"crypto/sha256"
	"encoding/hex"

	"github.com/cs3org/nirvana/internal/crud"
	"github.com/cs3org/nirvana/internal/model"
	"github.com/cs3org/nirvana/internal/registry"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage publisher accounts",
}

var userAddFlags = struct {
	Password string
}{}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create a publisher account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := crud.NewSqlite(config.Nirvana.DBFile)
		if err != nil {
			log.Fatal().Err(err).Send()
		}

		sum := sha256.Sum256([]byte(userAddFlags.Password))
		user := &model.User{
			Username:     args[0],
			PasswordHash: hex.EncodeToString(sum[:]),
		}
		if err := repo.StoreUser(cmd.Context(), user); err != nil {
			log.Fatal().Err(err).Send()
		}
		cmd.Println(registry.APIToken(user))
	},
}

var userTokenCmd = &cobra.Command{
	Use:   "token <username>",
	Short: "Print the API token of a publisher",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := crud.NewSqlite(config.Nirvana.DBFile)
		if err != nil {
			log.Fatal().Err(err).Send()
		}

		user, err := repo.GetUser(cmd.Context(), args[0])
		if err != nil {
			log.Fatal().Err(err).Send()
		}
		cmd.Println(registry.APIToken(user))
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userTokenCmd)

	userAddCmd.Flags().StringVarP(&userAddFlags.Password, "password", "p", "", "password of the new account")
	_ = userAddCmd.MarkFlagRequired("password")
}
