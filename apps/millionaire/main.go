//
// main.go
//
// Copyright (c) 2019-2026 Markku Rossi
//
// All rights reserved.
//

// Millionaire solves Yao's Millionaires' Problem: two parties learn
// which one is richer without revealing their net worths to each
// other.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/big"
	"net"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/markkurossi/garbled/circuit"
	"github.com/markkurossi/garbled/env"
	"github.com/markkurossi/garbled/ot"
	"github.com/markkurossi/garbled/p2p"
	"github.com/pkg/profile"
	"github.com/spf13/viper"
	"lukechampine.com/frand"
)

func main() {
	viper.SetConfigName("millionaire")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatalf("read config: %s", err)
		}
	}
	viper.SetDefault("address", ":8080")
	viper.SetDefault("bits", 64)
	viper.SetDefault("keybits", env.DefaultKeyBits)

	garbler := flag.Bool("g", false, "garbler mode")
	addr := flag.String("a", viper.GetString("address"), "network address")
	worth := flag.Uint64("i", 0, "net worth (random when zero)")
	bits := flag.Int("n", viper.GetInt("bits"), "comparison bit width")
	keyBits := flag.Int("k", viper.GetInt("keybits"), "OT RSA key size")
	verbose := flag.Bool("v", false, "verbose output")
	prof := flag.Bool("profile", viper.GetBool("profile"), "CPU profiling")
	flag.Parse()

	if *prof {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	color.Set(color.FgBlue, color.Bold)
	fmt.Println("Yao's Millionaires' Problem")
	color.Unset()

	if *bits < 1 {
		log.Fatalf("invalid bit width %d", *bits)
	}
	input := new(big.Int).SetUint64(*worth)
	if input.Sign() == 0 {
		input = frand.BigIntn(new(big.Int).Lsh(big.NewInt(1), uint(*bits)))
		fmt.Printf("Net worth not given, using %v\n", input)
	}
	if input.BitLen() > *bits {
		log.Fatalf("net worth %v does not fit into %d bits", input, *bits)
	}

	cfg := &env.Config{
		KeyBits: *keyBits,
	}

	var err error
	if *garbler {
		err = garblerMode(cfg, *addr, input, *bits, *verbose)
	} else {
		err = evaluatorMode(*addr, input, *bits, *verbose)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func garblerMode(cfg *env.Config, addr string, input *big.Int, bits int,
	verbose bool) error {

	circ, err := circuit.NewComparator(bits)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	fmt.Printf("Listening for connections at %s\n", addr)

	for {
		nc, err := ln.Accept()
		if err != nil {
			return err
		}
		fmt.Printf("New connection from %s\n", nc.RemoteAddr())

		conn := p2p.NewConn(nc)
		result, err := circuit.Garbler(cfg, conn, ot.NewRSA(cfg.GetKeyBits()),
			circ, input, verbose)
		conn.Close()
		if err != nil {
			return err
		}
		printResult(result, true)
	}
}

func evaluatorMode(addr string, input *big.Int, bits int, verbose bool) error {
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return err
	}
	conn := p2p.NewConn(nc)
	defer conn.Close()

	result, err := circuit.Evaluator(conn, ot.NewRSA(0), input, bits, verbose)
	if err != nil {
		return err
	}
	printResult(result, false)
	return nil
}

// printResult prints the outcome banner. The protocol computes
// "garbler > evaluator".
func printResult(result, garbler bool) {
	color.Set(color.FgGreen, color.Bold)
	switch {
	case result && garbler:
		fmt.Println("You are richer than the peer!")
	case result && !garbler:
		fmt.Println("The peer is richer than you.")
	case !result && garbler:
		fmt.Println("The peer is at least as rich as you.")
	default:
		fmt.Println("You are at least as rich as the peer!")
	}
	color.Unset()
}
