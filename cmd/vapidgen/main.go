package main

import (
	"fmt"

	"github.com/oliverisaac/goli"
	"github.com/oliverisaac/pushdemo/lib/vapid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const envFile = ".env"

func init() {
	goli.InitLogrus(logrus.InfoLevel)
}

func main() {
	keys, err := vapid.Generate()
	if err != nil {
		logrus.Fatal(err)
	}

	if err := vapid.WriteEnvFile(envFile, keys); err != nil {
		logrus.Fatal(errors.Wrap(err, "saving keys"))
	}

	fmt.Printf("#### VAPID keys generated and saved to %s ###\n", envFile)
}
