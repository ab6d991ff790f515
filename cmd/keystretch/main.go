// stretch-go: memory-hard key stretching
// Copyright 2026 Dark Bio AG. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command keystretch derives a stretched key from a passphrase.
//
// The passphrase is read from the terminal without echo, or from
// standard input when not attached to one. The derived digest is
// written to standard output in the chosen encoding.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/dark-bio/stretch-go/hasher"
	"github.com/dark-bio/stretch-go/internal/keyfmt"
	"github.com/dark-bio/stretch-go/stretch"
	"golang.org/x/term"
)

func main() {
	var iterations = flag.Int("n", 1<<16,
		"Chain length / work factor")
	var interval = flag.Int("interval", 0,
		"Checkpoint interval; 0 keeps the full chain in memory")
	var lanes = flag.Int("lanes", 0,
		"Parallel lanes; 0 runs a single serial derivation")
	var budget = flag.Int("budget", 0,
		"Replay step limit for sparse mode; 0 uses the default")
	var hashName = flag.String("hash", "sha512",
		"Hash: sha256, sha512, sha3-256, sha3-512, blake2b, blake2s, shake128, shake256, blake2xb")
	var xofSize = flag.Int("size", 64,
		"Digest width in bytes for the extendable-output hashes")
	var keyFormat = flag.String("keyfmt", "raw",
		"Key material format: raw, hex or base64")
	var encoding = flag.String("enc", "hex",
		"Output encoding: hex or base64")
	flag.Parse()

	h, err := pickHasher(*hashName, *xofSize)
	if err != nil {
		log.Fatal(err)
	}
	key, err := readKey(*keyFormat)
	if err != nil {
		log.Fatal(err)
	}
	config := stretch.Config{
		Iterations: *iterations,
		Interval:   *interval,
		Hasher:     h,
		Budget:     *budget,
	}

	var digest []byte
	if *lanes > 0 {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		digest, err = stretch.ParallelKey(ctx, key, *lanes, config)
	} else {
		digest, err = stretch.Key(key, config)
	}
	if err != nil {
		log.Fatal(err)
	}
	out, err := keyfmt.Encode(*encoding, digest)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)
}

// pickHasher maps a hash name to its capability, applying the digest
// width to the extendable-output families.
func pickHasher(name string, size int) (hasher.Hasher, error) {
	switch name {
	case "sha256":
		return hasher.SHA256(), nil
	case "sha512":
		return hasher.SHA512(), nil
	case "sha3-256":
		return hasher.SHA3256(), nil
	case "sha3-512":
		return hasher.SHA3512(), nil
	case "blake2b":
		return hasher.BLAKE2b(), nil
	case "blake2s":
		return hasher.BLAKE2s(), nil
	case "shake128":
		return hasher.Shake128(size), nil
	case "shake256":
		return hasher.Shake256(size), nil
	case "blake2xb":
		return hasher.BLAKE2Xb(size), nil
	default:
		return nil, fmt.Errorf("keystretch: unknown hash %q", name)
	}
}

// readKey obtains the key material: prompted without echo on a
// terminal, otherwise read whole from standard input with the line
// ending stripped before decoding.
func readKey(format string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Passphrase: ")
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, err
		}
		return keyfmt.Decode(format, string(raw))
	}
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, err
	}
	return keyfmt.Decode(format, strings.TrimRight(string(raw), "\r\n"))
}
