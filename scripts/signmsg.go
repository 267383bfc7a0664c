// One-off: go run scripts/signmsg.go "message to sign"
// Prints a fresh ed25519 keypair and a base64 signature, handy for poking
// /auth/verify against a stubbed RPC.
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
)

func main() {
	message := "hello"
	if len(os.Args) > 1 {
		message = os.Args[1]
	}
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	sig := ed25519.Sign(priv, []byte(message))
	fmt.Printf("public key: %s\n", base64.StdEncoding.EncodeToString(pub))
	fmt.Printf("signature:  %s\n", base64.StdEncoding.EncodeToString(sig))
}
