package mcpserver

// ServerName is reported to MCP clients during initialization.
const ServerName = "portainer-mcp"

// Version is the current version of the server.
const Version = "1.0.0"
