package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/mattn/go-colorable"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Globals struct {
	LogLevel               string  `env:"LOG_LEVEL"                 enum:"debug,info,warn,error" default:"info"          help:"Log level."`
	UserAgent              string  `env:"USER_AGENT"                                             default:"webgrab/0.0.1" help:"User-Agent header sent with every request."`
	ProxyAPIEndpoint       string  `env:"PROXY_API_ENDPOINT"                                                             help:"HTTP endpoint of a proxy-provisioning API."`
	ProxyAPIKey            string  `env:"PROXY_API_KEY"                                                                  help:"API key for the proxy-provisioning API."`
	ProxyRequestsPerSecond float64 `env:"PROXY_REQUESTS_PER_SECOND"                              default:"1"             help:"Maximum number of requests per second to the proxy-provisioning API."`
	CookieFile             string  `env:"COOKIE_FILE"                                            default:"cookies.yaml"  help:"Path to the cookie file."`
}

type CLI struct {
	Globals
	Get    GetCmd    `cmd:"" help:"Fetches a URL with GET."`
	Post   PostCmd   `cmd:"" help:"Fetches a URL with POST."`
	Cookie CookieCmd `cmd:"" help:"Looks up a named value in the cookie file."`
}

func main() {
	// Parse .env file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatal(err)
	}

	// Parse CLI.
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("webgrab"),
		kong.Description("Fetches URLs through rotating proxies."),
		kong.UsageOnError(),
		kong.Vars{
			"version": "0.0.1",
		},
	)

	// Setup logger.
	logLevel, err := zapcore.ParseLevel(cli.Globals.LogLevel)
	if err != nil {
		log.Fatal(fmt.Errorf("failed to parse log level: %w", err))
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger := zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(colorable.NewColorableStderr()),
		logLevel,
	))

	// Run the CLI.
	err = ctx.Run(logger, &cli.Globals)
	ctx.FatalIfErrorf(err)
}
