package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"landing-lights.klederson.com/internal/messaging"
)

func checkConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config",
		Short: "Validate the config file and print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			for _, w := range cfg.Warnings() {
				fmt.Fprintln(os.Stderr, "warning:", w)
			}
			// never echo the secret back
			if cfg.MQTT.Password != "" {
				cfg.MQTT.Password = "********"
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(cfg)
		},
	}
}

func doorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "door <open|closed>",
		Short: "Publish a garage door state, as the door controller would",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			c, err := messaging.Dial(cfg.MQTT, "door")
			if err != nil {
				return err
			}
			defer c.Disconnect(250)
			return messaging.SendDoor(c, cfg.MQTT, args[0])
		},
	}
}

func queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query",
		Short: "Ask the controller to publish its last distance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			c, err := messaging.Dial(cfg.MQTT, "query")
			if err != nil {
				return err
			}
			defer c.Disconnect(250)
			return messaging.SendQuery(c, cfg.MQTT)
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print distance notifications until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			c, err := messaging.Dial(cfg.MQTT, "watch")
			if err != nil {
				return err
			}
			defer c.Disconnect(250)

			out := cmd.OutOrStdout()
			err = messaging.Watch(c, cfg.MQTT, func(distance int, err error) {
				if err != nil {
					fmt.Fprintln(os.Stderr, "bad payload:", err)
					return
				}
				fmt.Fprintln(out, distance)
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return nil
		},
	}
}
