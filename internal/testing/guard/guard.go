package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("SEKOLAHKU_TEST_MODE") == "" {
			_ = os.Setenv("SEKOLAHKU_TEST_MODE", "1")
		}
	})
}
