package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/november1306/createmyvpn/internal/tunnel"
	"github.com/november1306/createmyvpn/internal/version"
	"github.com/november1306/createmyvpn/internal/wgconfig"
	"github.com/november1306/createmyvpn/internal/wgcrypto"
)

var rootCmd = &cobra.Command{
	Use:   "vpnclient",
	Short: "CreateMyVpn client",
	Long:  `CreateMyVpn client: generate keys, render configs, and run a userspace WireGuard tunnel.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vpnclient %s\n", version.Version)
		fmt.Println("Use --help for available commands")
	},
}

var genkeyCmd = &cobra.Command{
	Use:   "genkey",
	Short: "Generate a new WireGuard keypair",
	Run: func(cmd *cobra.Command, args []string) {
		kp, err := wgcrypto.Generate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("PrivateKey: %s\n", kp.PrivateKey)
		fmt.Printf("PublicKey:  %s\n", kp.PublicKey)
	},
}

var connectCmd = &cobra.Command{
	Use:   "connect <config-file>",
	Short: "Connect to a VPN using a WireGuard client config file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to read config file: %v\n", err)
			os.Exit(1)
		}
		if err := supervisor().Connect(string(data)); err != nil {
			fmt.Fprintf(os.Stderr, "Connection failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Tunnel established.")
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect the active VPN tunnel",
	Run: func(cmd *cobra.Command, args []string) {
		if err := supervisor().Disconnect(); err != nil {
			fmt.Fprintf(os.Stderr, "Disconnect failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Tunnel stopped.")
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a VPN tunnel is currently active",
	Run: func(cmd *cobra.Command, args []string) {
		if supervisor().IsActive() {
			fmt.Println("Status: connected")
		} else {
			fmt.Println("Status: disconnected")
		}
	},
}

var renderClientCmd = &cobra.Command{
	Use:   "render-client",
	Short: "Render a client .conf to stdout from flags",
	Run: func(cmd *cobra.Command, args []string) {
		privKey, _ := cmd.Flags().GetString("private-key")
		peerPub, _ := cmd.Flags().GetString("peer-public-key")
		endpointIP, _ := cmd.Flags().GetString("endpoint-ip")
		endpointPort, _ := cmd.Flags().GetUint16("endpoint-port")

		fmt.Print(wgconfig.RenderClientConfig(wgconfig.ClientRenderInput{
			ClientPrivateKey: privKey,
			ServerPublicKey:  peerPub,
			EndpointIP:       endpointIP,
			EndpointPort:     endpointPort,
		}))
	},
}

var renderServerCmd = &cobra.Command{
	Use:   "render-server",
	Short: "Render a server wg0.conf to stdout from flags",
	Run: func(cmd *cobra.Command, args []string) {
		privKey, _ := cmd.Flags().GetString("private-key")
		clientPub, _ := cmd.Flags().GetString("client-public-key")
		listenPort, _ := cmd.Flags().GetUint16("listen-port")
		extIface, _ := cmd.Flags().GetString("external-iface")

		fmt.Print(wgconfig.RenderServerConfig(wgconfig.ServerRenderInput{
			ServerPrivateKey: privKey,
			ClientPublicKey:  clientPub,
			ListenPort:       listenPort,
			ExternalIface:    extIface,
		}))
	},
}

// globalSupervisor is the process-wide tunnel singleton the CLI drives.
// The client is a single command invocation per process (connect in one
// run, disconnect in the next), so there is no cross-command state to
// share beyond what the OS routing table and running engine goroutines
// already hold — this exists to give each subcommand a uniform call site.
var globalSupervisor *tunnel.Supervisor

func supervisor() *tunnel.Supervisor {
	if globalSupervisor == nil {
		globalSupervisor = tunnel.New()
	}
	return globalSupervisor
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(genkeyCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(renderClientCmd)
	rootCmd.AddCommand(renderServerCmd)

	renderClientCmd.Flags().String("private-key", "", "client private key (base64)")
	renderClientCmd.Flags().String("peer-public-key", "", "server public key (base64)")
	renderClientCmd.Flags().String("endpoint-ip", "", "server endpoint IP")
	renderClientCmd.Flags().Uint16("endpoint-port", 51820, "server endpoint port")

	renderServerCmd.Flags().String("private-key", "", "server private key (base64)")
	renderServerCmd.Flags().String("client-public-key", "", "client public key (base64)")
	renderServerCmd.Flags().Uint16("listen-port", 51820, "WireGuard listen port")
	renderServerCmd.Flags().String("external-iface", "eth0", "external interface for NAT masquerading")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
