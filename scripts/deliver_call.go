package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aviv90/audiokit/pkg/configutil"
	"github.com/aviv90/audiokit/pkg/delivery/twilio"
	"github.com/spf13/viper"
)

type deliveryConfig struct {
	Delivery struct {
		Provider string         `mapstructure:"provider"`
		Settings map[string]any `mapstructure:"settings"`
	} `mapstructure:"delivery"`
}

func main() {
	configPath := flag.String("config", "examples/narrator/config.local.yaml", "")
	to := flag.String("to", "", "")
	artifact := flag.String("artifact", "", "artifact file name to play")
	flag.Parse()
	if *to == "" || *artifact == "" {
		fmt.Println("usage: deliver_call -to=+456 -artifact=abc.mp3 [-config=...]")
		os.Exit(1)
	}
	cfg, err := loadDeliveryConfig(*configPath)
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(1)
	}
	var settings twilio.Config
	if err := configutil.DecodeSettings(cfg.Delivery.Settings, &settings); err != nil {
		fmt.Println("settings error:", err)
		os.Exit(1)
	}
	speaker, err := twilio.NewSpeaker(settings)
	if err != nil {
		fmt.Println("speaker error:", err)
		os.Exit(1)
	}
	callSID, err := speaker.Deliver(context.Background(), *to, *artifact)
	if err != nil {
		fmt.Println("call error:", err)
		os.Exit(1)
	}
	fmt.Println("call_sid:", callSID)
}

func loadDeliveryConfig(path string) (deliveryConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return deliveryConfig{}, err
	}
	var cfg deliveryConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return deliveryConfig{}, err
	}
	return cfg, nil
}
