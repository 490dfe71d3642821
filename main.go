package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kagamine/InternEvaluate/config"
	"github.com/Kagamine/InternEvaluate/database"
	"github.com/Kagamine/InternEvaluate/logger"
	"github.com/Kagamine/InternEvaluate/web"
	"github.com/Kagamine/InternEvaluate/web/service"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}

	err := database.InitDB(config.GetDBPath())
	if err != nil {
		log.Fatal(err)
	}

	server := web.NewServer()
	err = server.Start()
	if err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			err := server.Stop()
			if err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			err = server.Start()
			if err != nil {
				log.Println(err)
				return
			}
		default:
			server.Stop()
			database.CloseDB()
			logger.CloseLogger()
			return
		}
	}
}

func resetSetting() {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}

	settingService := service.SettingService{}
	err = settingService.ResetSettings()
	if err != nil {
		fmt.Println("reset setting failed:", err)
	} else {
		fmt.Println("reset setting success")
	}
}

func resetAdminPassword() {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}

	userService := service.UserService{}
	err = userService.ResetDepartmentHeadPassword(config.GetInitialAdminPassword())
	if err != nil {
		fmt.Println("reset admin password failed:", err)
	} else {
		fmt.Println("reset admin password success")
	}
}

func showSetting(show bool) {
	if !show {
		return
	}
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}

	settingService := service.SettingService{}
	allSetting, err := settingService.GetAllSetting()
	if err != nil {
		fmt.Println("get current settings failed, error info:", err)
		return
	}
	fmt.Println("current panel settings as follows:")
	fmt.Println("listen:", allSetting.WebListen)
	fmt.Println("port:", allSetting.WebPort)
	fmt.Println("base path:", allSetting.WebBasePath)
	fmt.Println("session max age (minutes):", allSetting.SessionMaxAge)
}

func updateSetting(port int) {
	err := database.InitDB(config.GetDBPath())
	if err != nil {
		fmt.Println(err)
		return
	}

	settingService := service.SettingService{}

	if port > 0 {
		err := settingService.SetPort(port)
		if err != nil {
			fmt.Println("set port failed:", err)
		} else {
			fmt.Printf("set port %v success\n", port)
		}
	}
}

func main() {
	_ = godotenv.Load()

	var rootCmd = &cobra.Command{
		Use: config.GetName(),
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var (
		port       int
		reset      bool
		resetAdmin bool
		show       bool
	)
	var settingCmd = &cobra.Command{
		Use:   "setting",
		Short: "Show or change panel settings",
		Run: func(cmd *cobra.Command, args []string) {
			if reset {
				resetSetting()
			}
			if resetAdmin {
				resetAdminPassword()
			}
			if port > 0 {
				updateSetting(port)
			}
			showSetting(show)
		},
	}
	settingCmd.Flags().IntVarP(&port, "port", "p", 0, "set the panel port")
	settingCmd.Flags().BoolVar(&reset, "reset", false, "reset all settings to defaults")
	settingCmd.Flags().BoolVar(&resetAdmin, "resetAdmin", false, "reset the department-head password")
	settingCmd.Flags().BoolVar(&show, "show", false, "show the current settings")

	rootCmd.AddCommand(runCmd, settingCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
