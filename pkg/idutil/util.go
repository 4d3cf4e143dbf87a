package idutil

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// SetNode configures the snowflake node id. It must be called before the
// first Generate call to take effect.
func SetNode(id int64) error {
	n, err := snowflake.NewNode(id)
	if err != nil {
		return err
	}

	nodeOnce.Do(func() { node = n })
	return nil
}

func Generate() int64 {
	nodeOnce.Do(func() {
		n, err := snowflake.NewNode(0)
		if err != nil {
			panic(err)
		}
		node = n
	})

	return node.Generate().Int64()
}

// Time returns the time embedded in a snowflake id.
func Time(id int64) time.Time {
	return time.UnixMilli(snowflake.ParseInt64(id).Time())
}
