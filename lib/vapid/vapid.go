// Package vapid creates the key pair the server uses to identify itself to push services.
package vapid

import (
	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	PublicKeyEnv  = "VAPID_PUBLIC_KEY"
	PrivateKeyEnv = "VAPID_PRIVATE_KEY"
)

type Keys struct {
	Public  string
	Private string
}

func Generate() (Keys, error) {
	priv, pub, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return Keys{}, errors.Wrap(err, "generating VAPID keys")
	}
	return Keys{Public: pub, Private: priv}, nil
}

// WriteEnvFile replaces path with an env file holding both keys.
func WriteEnvFile(path string, keys Keys) error {
	err := godotenv.Write(map[string]string{
		PublicKeyEnv:  keys.Public,
		PrivateKeyEnv: keys.Private,
	}, path)
	return errors.Wrapf(err, "writing VAPID keys to %s", path)
}
