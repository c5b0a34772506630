// Package server implements the MCP (Model Context Protocol) server for
// structure tensor queries.
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - tensor_load_image: Load an image and precompute its gradient field
//   - tensor_set_kernel: Select the Gaussian window (size, sigma)
//   - tensor_kernel_weights: Inspect the normalized weight table
//   - tensor_query: Eigenvalues and eigenvectors at one point
//   - tensor_query_multi: The same for a list of labelled points
//   - tensor_overlay: Render eigenvector arrows and the window footprint
//
// Query tools accept optional size and sigma. When given, they replace the
// current kernel, which is rebuilt only when the parameters change.
//
// # Image Caching
//
// Images are cached by path together with their gradient fields, so the
// Sobel pass runs once per image for the lifetime of the process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with
// code -32000 and the Go error string in data. Invalid parameters leave the
// current kernel unchanged.
//
// # Usage
//
//	cfg, err := server.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := server.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
