package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/structure-tensor-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("structure-tensor-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("structure-tensor-mcp - MCP server for local structure tensor analysis")
			fmt.Println()
			fmt.Println("Usage: structure-tensor-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=debug        Enable debug logging\n", server.EnvLogLevel)
			fmt.Printf("  %s=9          Default Gaussian window size (odd, 1-51)\n", server.EnvKernelSize)
			fmt.Printf("  %s=2.0             Default Gaussian sigma (0.1-30)\n", server.EnvSigma)
			fmt.Printf("  %s=1.0    Largest eigenvalue treated as flat\n", server.EnvFlatThreshold)
			fmt.Printf("  %s=0.5    Coherence separating edges from corners\n", server.EnvEdgeCoherence)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Debug() {
		log.Printf("Structure Tensor MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("Default kernel: size=%d sigma=%g", cfg.KernelSize, cfg.Sigma)
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Server error: %v", err)
	}
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
