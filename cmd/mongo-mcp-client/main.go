// Command mongo-mcp-client is a smoke client: it launches a server binary over stdio,
// initializes it, lists its tools and calls list_collections.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// go run ./cmd/mongo-mcp-client bin/mongo-mcp
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	if len(os.Args) < 2 {
		log.Fatal("Usage: mongo-mcp-client <path_to_mcp_program> [args...]")
	}
	program := os.Args[1]

	c, err := client.NewStdioMCPClient(
		program,
		os.Environ(), // passthrough environment, including MONGO_URL and DB_NAME
		os.Args[2:]...,
	)
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer c.Close()
	captureServerLog(c)

	if err := c.Start(ctx); err != nil {
		log.Fatalf("Failed to start client: %v", err)
	}

	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "mongo-mcp-client",
		Version: "1.0.0",
	}

	serverInfo, err := c.Initialize(ctx, initRequest)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	fmt.Printf("Initialized with server: %s %s\n\n", serverInfo.ServerInfo.Name, serverInfo.ServerInfo.Version)

	if err := c.Ping(ctx); err != nil {
		log.Fatalf("Health check failed: %v", err)
	}

	toolsResult, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		log.Fatalf("Failed to list tools: %v", err)
	}
	fmt.Printf("Server has %d tools available\n", len(toolsResult.Tools))
	for i, tool := range toolsResult.Tools {
		fmt.Printf("  %d. %s\n", i+1, tool.Name)
	}

	callRequest := mcp.CallToolRequest{}
	callRequest.Params.Name = "list_collections"
	callRequest.Params.Arguments = map[string]any{}
	result, err := c.CallTool(ctx, callRequest)
	if err != nil {
		log.Fatalf("Failed to call list_collections: %v", err)
	}
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			fmt.Printf("\nCollections: %s\n", text.Text)
		}
	}
}

func captureServerLog(c *client.Client) {
	stderr, ok := client.GetStderr(c)
	if !ok {
		return
	}
	go func() {
		buf := make([]byte, 4096)
		for {
			n, err := stderr.Read(buf)
			if n > 0 {
				fmt.Fprintf(os.Stderr, "[Server] %s", buf[:n])
			}
			if err != nil {
				if err != io.EOF {
					log.Printf("Error reading stderr: %v", err)
				}
				return
			}
		}
	}()
}
