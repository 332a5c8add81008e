package mongo

import (
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mongo-mcp/mcp/internal/tools"
)

// DefaultQueryLimit caps the number of documents returned by query when no limit is given.
const DefaultQueryLimit int64 = 10

var errCollectionRequired = errors.New("collection is required and cannot be empty")

// collectionInput is implemented by every input that names a collection.
type collectionInput interface {
	collectionName() string
}

// bindCollectionArgs binds the request arguments into args and checks the
// collection name is present.
func bindCollectionArgs(request mcp.CallToolRequest, args collectionInput) error {
	if err := request.BindArguments(args); err != nil {
		return tools.InvalidArguments(err)
	}
	if args.collectionName() == "" {
		return tools.InvalidArguments(errCollectionRequired)
	}
	return nil
}

func requiredString(value, name string) error {
	if value == "" {
		return tools.InvalidArguments(errors.New(name + " is required and cannot be empty"))
	}
	return nil
}
