// Package main implements an interactive workbench for the wire codec:
// inspecting message payloads, framing and unframing packets with
// configurable cipher suites, and exercising the primitive encodings.
package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/desertbit/grumble"
	"github.com/jedib0t/go-pretty/table"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"sshwire/pkg/ident"
	"sshwire/pkg/kex"
	"sshwire/pkg/msg"
	"sshwire/pkg/packet"
	"sshwire/pkg/suites"
	"sshwire/pkg/wire"
)

// CLI banner with version.
const banner = `
          _               _
  ___ ___| |____      __ (_)_ __ ___
 / __/ __| '_ \ \ /\ / / | | '__/ _ \
 \__ \__ \ | | \ V  V /  | | | |  __/
 |___/___/_| |_|\_/\_/   |_|_|  \___|

   SSH wire protocol workbench (v1.0)
   ----------------------------------

`

// Config selects the cipher suite the frame and unframe commands use.
// Keys are hex encoded; empty keys select the identity suite.
type Config struct {
	Cipher         string `toml:"cipher"`           // "none", "aes128-ctr" or "chacha20"
	EncryptThenMac bool   `toml:"encrypt_then_mac"` // MAC ordering
	Zlib           bool   `toml:"zlib"`             // payload compression
	Key            string `toml:"key"`              // cipher key, hex
	IV             string `toml:"iv"`               // cipher IV or nonce, hex
	MacKey         string `toml:"mac_key"`          // HMAC key, hex
}

// Global state.
var config *Config

// LoadConfig reads and parses the config file. A missing file yields the
// default configuration rather than an error, so the workbench starts
// without any setup.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "./sshwire.toml"
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %v", err)
	}

	config := &Config{Cipher: "none"}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return config, nil
	}

	if _, err := toml.DecodeFile(absPath, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %v", absPath, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the cipher selection and key material lengths.
func (config *Config) Validate() error {
	switch config.Cipher {
	case "", "none", "aes128-ctr", "chacha20":
	default:
		return fmt.Errorf("unknown cipher %q", config.Cipher)
	}
	for name, field := range map[string]string{
		"key": config.Key, "iv": config.IV, "mac_key": config.MacKey,
	} {
		if _, err := hex.DecodeString(field); err != nil {
			return fmt.Errorf("%s is not valid hex: %v", name, err)
		}
	}
	return nil
}

// BuildSuite constructs a fresh cipher capability from the configuration.
// Each invocation returns a new keystream, so a frame command followed by
// an unframe command sees matching cipher state.
func (config *Config) BuildSuite() (suites.Suite, error) {
	var (
		suite suites.Suite
		err   error
	)
	switch config.Cipher {
	case "", "none":
		if config.EncryptThenMac {
			suite = suites.NoneETM()
		} else {
			suite = suites.None()
		}
	case "aes128-ctr":
		key, _ := hex.DecodeString(config.Key)
		iv, _ := hex.DecodeString(config.IV)
		macKey, _ := hex.DecodeString(config.MacKey)
		suite, err = suites.NewAES128CTR(key, iv, macKey, config.EncryptThenMac)
	case "chacha20":
		key, _ := hex.DecodeString(config.Key)
		nonce, _ := hex.DecodeString(config.IV)
		macKey, _ := hex.DecodeString(config.MacKey)
		suite, err = suites.NewChaCha20(key, nonce, macKey, config.EncryptThenMac)
	}
	if err != nil {
		return nil, err
	}
	if config.Zlib {
		suite = suites.Zlib(suite)
	}
	return suite, nil
}

// RenderKexInit formats the negotiation name-lists into a table, one row
// per direction-sensitive concern.
func RenderKexInit(m *msg.KexInit) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)

	t.AppendHeader(table.Row{"Concern", "Client to server", "Server to client"})
	t.AppendRow(table.Row{"kex", m.KexAlgorithms.String(), m.KexAlgorithms.String()})
	t.AppendRow(table.Row{"host key", m.ServerHostKeyAlgorithms.String(), m.ServerHostKeyAlgorithms.String()})
	t.AppendRow(table.Row{"cipher", m.EncryptionClientToServer.String(), m.EncryptionServerToClient.String()})
	t.AppendRow(table.Row{"mac", m.MacClientToServer.String(), m.MacServerToClient.String()})
	t.AppendRow(table.Row{"compression", m.CompressionClientToServer.String(), m.CompressionServerToClient.String()})
	t.AppendRow(table.Row{"languages", m.LanguagesClientToServer.String(), m.LanguagesServerToClient.String()})

	return t.Render()
}

// AddCommands registers all CLI commands with the application.
func AddCommands(app *grumble.App) {
	// Command to decode a message payload
	app.AddCommand(&grumble.Command{
		Name:    "inspect",
		Aliases: []string{"decode"},
		Help:    "decode a hex message payload and display its fields",
		Args: func(a *grumble.Args) {
			a.String("payload", "hex-encoded message payload")
		},
		Run: func(c *grumble.Context) error {
			payload, err := hex.DecodeString(c.Args.String("payload"))
			if err != nil {
				log.Error().Err(err).Msg("Payload is not valid hex")
				return nil
			}

			m, err := msg.Decode(payload)
			if err != nil {
				log.Error().Err(err).Msg("Failed to decode message")
				return nil
			}

			log.Info().Uint8("number", m.Number()).Msgf("Decoded %T", m)
			if kexinit, ok := m.(*msg.KexInit); ok {
				c.App.Println(RenderKexInit(kexinit))
			} else {
				c.App.Printf("%+v\n", m)
			}
			return nil
		},
	})
	// Command to wrap a payload into a packet
	app.AddCommand(&grumble.Command{
		Name: "frame",
		Help: "wrap a hex payload into one packet using the configured suite",
		Args: func(a *grumble.Args) {
			a.String("payload", "hex-encoded payload")
		},
		Flags: func(f *grumble.Flags) {
			f.Int("s", "seq", 0, "sequence number bound into the MAC")
		},
		Run: func(c *grumble.Context) error {
			payload, err := hex.DecodeString(c.Args.String("payload"))
			if err != nil {
				log.Error().Err(err).Msg("Payload is not valid hex")
				return nil
			}

			suite, err := config.BuildSuite()
			if err != nil {
				log.Error().Err(err).Msg("Failed to build cipher suite")
				return nil
			}

			var buf bytes.Buffer
			seq := uint32(c.Flags.Int("seq"))
			if err := packet.Write(&buf, payload, suite, seq); err != nil {
				log.Error().Err(err).Msg("Failed to frame payload")
				return nil
			}

			log.Info().Int("size", buf.Len()).Uint32("seq", seq).Msg("Payload framed")
			c.App.Println(hex.EncodeToString(buf.Bytes()))
			return nil
		},
	})
	// Command to unwrap a packet back into its payload
	app.AddCommand(&grumble.Command{
		Name: "unframe",
		Help: "unwrap a hex packet using the configured suite",
		Args: func(a *grumble.Args) {
			a.String("packet", "hex-encoded packet, MAC trailer included")
		},
		Flags: func(f *grumble.Flags) {
			f.Int("s", "seq", 0, "sequence number bound into the MAC")
		},
		Run: func(c *grumble.Context) error {
			frame, err := hex.DecodeString(c.Args.String("packet"))
			if err != nil {
				log.Error().Err(err).Msg("Packet is not valid hex")
				return nil
			}

			suite, err := config.BuildSuite()
			if err != nil {
				log.Error().Err(err).Msg("Failed to build cipher suite")
				return nil
			}

			seq := uint32(c.Flags.Int("seq"))
			payload, err := packet.Read(bytes.NewReader(frame), suite, seq)
			if err != nil {
				log.Error().Err(err).Msg("Failed to unframe packet")
				return nil
			}

			log.Info().Int("size", len(payload)).Uint32("seq", seq).Msg("Packet unframed")
			c.App.Println(hex.EncodeToString(payload))
			return nil
		},
	})
	// Command to show the mpint encoding of an integer
	app.AddCommand(&grumble.Command{
		Name: "mpint",
		Help: "show the minimal two's-complement wire form of an integer",
		Args: func(a *grumble.Args) {
			a.String("value", "decimal integer, negative values allowed")
		},
		Run: func(c *grumble.Context) error {
			v, ok := new(big.Int).SetString(c.Args.String("value"), 10)
			if !ok {
				log.Error().Msg("Value is not a decimal integer")
				return nil
			}

			w := wire.NewWriter()
			w.WriteMpInt(v)
			buf, err := w.Bytes()
			if err != nil {
				log.Error().Err(err).Msg("Failed to encode value")
				return nil
			}

			c.App.Println(hex.EncodeToString(buf))
			return nil
		},
	})
	// Command to parse an identification line
	app.AddCommand(&grumble.Command{
		Name: "ident",
		Help: "parse a protocol identification line",
		Args: func(a *grumble.Args) {
			a.String("line", "identification line, e.g. SSH-2.0-OpenSSH_9.0")
		},
		Run: func(c *grumble.Context) error {
			id, err := ident.Parse(c.Args.String("line"))
			if err != nil {
				log.Error().Err(err).Msg("Failed to parse identification")
				return nil
			}
			log.Info().
				Str("proto", id.ProtoVersion).
				Str("software", id.SoftwareVersion).
				Str("comments", id.Comments).
				Msg("Identification parsed")
			return nil
		},
	})
	// Command to generate an ephemeral key pair
	app.AddCommand(&grumble.Command{
		Name: "keygen",
		Help: "generate an X25519 ephemeral key pair for key exchange",
		Run: func(c *grumble.Context) error {
			private, public, err := kex.GenerateKeyPair()
			if err != nil {
				log.Error().Err(err).Msg("Failed to generate key pair")
				return nil
			}
			defer private.Zero()

			log.Info().Str("public", hex.EncodeToString(public)).Msg("Key pair generated")
			c.App.Println("private: " + hex.EncodeToString(private.Bytes()))
			return nil
		},
	})
}

// main is the entry point for the application.
func main() {
	// Set up logging
	configureLogging()

	// Configure and create the CLI app
	app := setupCLI()

	// Add all command handlers
	AddCommands(app)

	// Run the application and handle any errors
	if err := app.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}

// configureLogging sets up zerolog with appropriate formatting and level.
func configureLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	})

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// setupCLI initializes the command-line interface with basic configuration.
// Returns a configured grumble App instance.
func setupCLI() *grumble.App {
	// Determine history file location
	var histFile string
	home, err := os.UserHomeDir()
	if err != nil {
		histFile = ".sshwire"
	} else {
		histFile = filepath.Join(home, ".sshwire")
	}

	app := grumble.New(&grumble.Config{
		Name:        "sshwire",
		HistoryFile: histFile,
		Flags: func(f *grumble.Flags) {
			f.String("c", "config", "sshwire.toml", "path to configuration file")
		},
	})

	app.SetPrintASCIILogo(func(a *grumble.App) {
		fmt.Print(banner)
	})

	app.OnInit(func(a *grumble.App, flags grumble.FlagMap) error {
		var err error
		config, err = LoadConfig(flags.String("config"))
		if err != nil {
			return fmt.Errorf("failed to load configuration: %v", err)
		}
		return nil
	})

	return app
}
