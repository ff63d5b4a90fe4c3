// avatar-emote triggers expressions on a running avatar dashboard.
//
//	avatar-emote -avatar player -clip wave
//	avatar-emote -list
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/teslashibe/go-avatar/internal/config"
	"github.com/teslashibe/go-avatar/internal/httpc"
	"github.com/teslashibe/go-avatar/internal/log"
	"github.com/teslashibe/go-avatar/pkg/web"
)

func main() {
	url := flag.String("url", "http://localhost:"+config.WebPort(), "Dashboard URL")
	avatar := flag.String("avatar", "player", "Avatar id")
	clip := flag.String("clip", "", "Expression clip to play")
	equip := flag.Bool("equip", false, "Equip the clip before playing it")
	list := flag.Bool("list", false, "List avatars and emotes, then exit")
	timeout := flag.Duration("timeout", httpc.DefaultTimeout, "Request timeout")
	flag.Parse()

	log.Init(config.LogLevel())

	client := web.NewClient(*url, httpc.NewClient(*timeout))
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *list {
		if err := printInventory(ctx, client); err != nil {
			log.Error("list failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if *clip == "" {
		fmt.Fprintln(os.Stderr, "Error: -clip is required")
		flag.Usage()
		os.Exit(2)
	}

	if *equip {
		if err := client.Equip(ctx, *avatar, *clip); err != nil {
			log.Error("equip failed", "avatar", *avatar, "clip", *clip, "error", err)
			os.Exit(1)
		}
	}

	res, err := client.Trigger(ctx, *avatar, *clip, time.Now().UnixMilli())
	if err != nil {
		log.Error("trigger failed", "avatar", *avatar, "clip", *clip, "error", err)
		os.Exit(1)
	}
	if !res.Triggered {
		log.Warn("expression ignored (not equipped or duplicate)", "avatar", *avatar, "clip", *clip)
		os.Exit(1)
	}
	log.Info("expression triggered", "avatar", res.Avatar, "clip", res.Clip, "timestamp", res.Timestamp)
}

func printInventory(ctx context.Context, client *web.Client) error {
	avatars, err := client.Avatars(ctx)
	if err != nil {
		return err
	}
	for _, a := range avatars {
		fmt.Printf("%-12s %-10s %-8s owned=%v\n", a.ID, a.State, a.Variant, a.Owned)
	}

	emotes, err := client.Emotes(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("emotes: %v\n", emotes)
	return nil
}
