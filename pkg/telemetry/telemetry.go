// Package telemetry mirrors decoded bindings into Redis so local consumers
// can read the last reported chassis values without an SNMP manager.
package telemetry

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sattelink/sci-snmp-bridge/pkg/mib"
	"github.com/sattelink/sci-snmp-bridge/pkg/snmp"
)

// Hash keys, one per MIB group.
const (
	KeyUnitQuery = "pa-chassis:unitquery"
	KeyProduct   = "pa-chassis:product"
	KeyInfo      = "pa-chassis:info"
	KeyConfig    = "pa-chassis:config"
)

// Client is a thin Redis wrapper holding the mirror connection.
type Client struct {
	client *redis.Client
	ctx    context.Context
}

// New connects to Redis and verifies the connection.
func New(addr, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &Client{client: client, ctx: ctx}, nil
}

// Mirror writes one binding as a hash field and publishes the update on the
// hash key channel.
func (c *Client) Mirror(b snmp.Binding) error {
	name := mib.Name(b.OID)
	key := keyFor(name)

	var value string
	switch v := b.Value.(type) {
	case snmp.Integer:
		value = fmt.Sprintf("%d", v.V)
	case snmp.OctetString:
		value = string(v)
	default:
		return fmt.Errorf("unsupported value type %T", b.Value)
	}

	pipe := c.client.Pipeline()
	pipe.HSet(c.ctx, key, name, value)
	pipe.Publish(c.ctx, key, fmt.Sprintf("%s:%s", name, value))
	_, err := pipe.Exec(c.ctx)
	return err
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.client.Close()
}

func keyFor(name string) string {
	switch {
	case strings.HasPrefix(name, "product."):
		return KeyProduct
	case strings.HasPrefix(name, "info."):
		return KeyInfo
	case strings.HasPrefix(name, "config."):
		return KeyConfig
	default:
		return KeyUnitQuery
	}
}
