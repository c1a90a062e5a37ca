package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cppla/inkwell/config"
	"github.com/cppla/inkwell/routes"
	"github.com/cppla/inkwell/services"
	"github.com/cppla/inkwell/store"
	"github.com/cppla/inkwell/utils"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "inkwell",
	Short:        "A small multi-user blog",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the data files and report their contents",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		st, err := config.InitDataStore(cfg)
		if err != nil {
			return describeLoadError(err)
		}
		fmt.Printf("Data dir: %s\n", cfg.Data.Dir)
		fmt.Printf("Users:    %d\n", st.Users.Len())
		fmt.Printf("Posts:    %d\n", st.Posts.Len())
		return nil
	},
}

var useraddCmd = &cobra.Command{
	Use:   "useradd <username> <password>",
	Short: "Register a user from the command line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		st, err := config.InitDataStore(cfg)
		if err != nil {
			return describeLoadError(err)
		}
		user, err := services.NewUserService(st.Users).Register(args[0], args[1])
		if err != nil {
			return fmt.Errorf("adding user: %w", err)
		}
		fmt.Printf("User %s created\n", user.Username)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to the TOML config file")
	rootCmd.AddCommand(serveCmd, checkCmd, useraddCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := utils.InitLogger(cfg); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer utils.Logger.Sync() //nolint:errcheck

	st, err := config.InitDataStore(cfg)
	if err != nil {
		// refuse to start on corrupt data rather than overwrite it later
		utils.Logger.Fatal("loading data failed", zap.Error(describeLoadError(err)))
	}

	users := services.NewUserService(st.Users)
	posts := services.NewPostService(st.Posts, services.RealClock{}, services.FeedOptions{
		PageSize:          cfg.Feed.PageSize,
		TotalFromFiltered: cfg.Feed.TotalFromFiltered,
	})

	r, err := routes.SetupRouter(users, posts)
	if err != nil {
		return err
	}

	sweeper, err := utils.StartImageSweeper(cfg.Uploads.SweepSchedule, func() {
		grace := time.Duration(cfg.Uploads.SweepGraceMinutes) * time.Minute
		removed, err := utils.SweepOrphanImages(cfg.Uploads.ImagesDir, cfg.Uploads.URLPrefix, posts.ReferencedImages(), grace, time.Now())
		if err != nil {
			utils.Logger.Warn("image sweep failed", zap.Error(err))
			return
		}
		if len(removed) > 0 {
			utils.Logger.Info("removed orphan images", zap.Strings("files", removed))
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling image sweeper: %w", err)
	}
	if sweeper != nil {
		defer sweeper.Stop()
	}

	utils.Sugar.Infof("Starting server on port %s", cfg.App.Port)
	if err := utils.GraceServer(":"+cfg.App.Port, r); err != nil {
		utils.Sugar.Errorf("server stopped with error: %v", err)
		return err
	}
	return nil
}

func describeLoadError(err error) error {
	var corrupt *store.CorruptDataError
	if errors.As(err, &corrupt) {
		return fmt.Errorf("data file %s is not a valid JSON array, fix or remove it: %w", corrupt.Path, corrupt.Err)
	}
	return err
}
