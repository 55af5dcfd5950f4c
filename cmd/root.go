// Copyright 2024-2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"fmt"
	"os"

	"github.com/invest-lab/ail-api/common"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Profile bool
var Trace bool

func init() {
	// Datasets
	viper.BindEnv("data.prices", "AIL_DATA_PRICES")
	rootCmd.PersistentFlags().String("data-prices", "data/prices_10y.csv", "Path to the static price dataset CSV")
	viper.BindPFlag("data.prices", rootCmd.PersistentFlags().Lookup("data-prices"))

	viper.BindEnv("data.factors", "AIL_DATA_FACTORS")
	rootCmd.PersistentFlags().String("data-factors", "data/factors", "Directory holding Fama-French factor CSVs")
	viper.BindPFlag("data.factors", rootCmd.PersistentFlags().Lookup("data-factors"))

	viper.BindEnv("data.fixedincome", "AIL_DATA_FIXEDINCOME")
	rootCmd.PersistentFlags().String("data-fixedincome", "data/fixedincome", "Directory holding fixed income CSVs")
	viper.BindPFlag("data.fixedincome", rootCmd.PersistentFlags().Lookup("data-fixedincome"))

	// Cache
	viper.BindEnv("cache.redis_url", "AIL_REDIS_URL")
	rootCmd.PersistentFlags().String("redis-url", "", "Redis connection string; if blank use the local cache only")
	viper.BindPFlag("cache.redis_url", rootCmd.PersistentFlags().Lookup("redis-url"))

	// Logging configuration
	viper.BindEnv("log.level", "AIL_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "AIL_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "AIL_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	rootCmd.PersistentFlags().BoolVar(&Profile, "cpu-profile", false, "Run pprof and save in profile.out")
	rootCmd.PersistentFlags().BoolVar(&Trace, "trace", false, "Trace program execution and save in trace.out")
}

var rootCmd = &cobra.Command{
	Use:     "ailapi",
	Version: common.CurrentVersion.String(),
	Short:   "Advanced Investments Lab API",
	Long:    `An educational asset-pricing backend serving CAPM, Fama-French, efficient frontier, performance ratio, utility, and fixed income computations.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
