package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/synccube/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 3001,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	publicUrl = configVar[string]{
		envKey:       "SERVER_PUBLIC_URL",
		flagKey:      "public-url",
		defaultValue: "",
	}
	roomIdLength = configVar[int]{
		envKey:       "SERVER_ROOM_ID_LENGTH",
		flagKey:      "room-id-length",
		defaultValue: 6,
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.String(publicUrl.flagKey, publicUrl.defaultValue, "Publicly reachable base url announced to clients")
	pflag.Int(roomIdLength.flagKey, roomIdLength.defaultValue, "Length of generated room ids")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(publicUrl.flagKey, publicUrl.envKey)
	viper.BindEnv(roomIdLength.flagKey, roomIdLength.envKey)

	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(publicUrl.flagKey, publicUrl.defaultValue)
	viper.SetDefault(roomIdLength.flagKey, roomIdLength.defaultValue)

	return &app.AppConfig{
		Host:         viper.GetString(host.flagKey),
		Port:         viper.GetInt(port.flagKey),
		LogLevel:     viper.GetString(logLevel.flagKey),
		PublicUrl:    viper.GetString(publicUrl.flagKey),
		RoomIdLength: viper.GetInt(roomIdLength.flagKey),
	}
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
