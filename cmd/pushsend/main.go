package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/oliverisaac/goli"
	"github.com/oliverisaac/pushdemo/lib/pushclient"
	"github.com/oliverisaac/pushdemo/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func init() {
	goli.InitLogrus(logrus.InfoLevel)
}

func main() {
	err := run()
	if err != nil {
		logrus.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(".env"); err != nil {
		logrus.Debug(errors.Wrap(err, "Failed to load .env"))
	}

	server := flag.String("server", goli.DefaultEnv("PUSHDEMO_SERVER", "http://localhost:8080"), "base URL of the push server")
	title := flag.String("title", types.DefaultNotificationTitle, "notification title")
	message := flag.String("message", "", "notification body")
	icon := flag.String("icon", "", "icon URL, defaults to the app icon")
	image := flag.String("image", "", "image URL, defaults to the app banner")
	link := flag.String("link", "", "URL opened when the notification is clicked, defaults to the server")
	tag := flag.String("tag", "", "notification tag")
	flag.Parse()

	if *message == "" {
		return errors.New("-message is required")
	}

	opts := types.NotificationOptions{
		Icon:  *icon,
		Image: *image,
		Tag:   *tag,
	}
	if *link != "" {
		opts.Data = map[string]any{"url": *link}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := pushclient.New(nil, pushclient.Config{ServerURL: *server})
	return c.SendPush(ctx, *title, *message, opts)
}
