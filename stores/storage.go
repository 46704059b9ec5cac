package stores

import (
	"os"

	"signaling-server/core"
	"signaling-server/stores/memory"
	"signaling-server/stores/sqlite"

	"github.com/sirupsen/logrus"
)

func GetStore() core.CallStore {
	storageType := os.Getenv("STORAGE_TYPE")
	var store core.CallStore

	storageField := logrus.Fields{
		"storageType": storageType,
	}

	switch storageType {
	case "sqlite":
		dataSourceName := os.Getenv("DATA_SOURCE_NAME")
		storageField["dataSourceName"] = dataSourceName
		store = sqlite.NewCallStore(dataSourceName)
	default:
		store = memory.NewCallStore()
		storageField["storageType"] = "in-memory"
	}
	logrus.WithFields(storageField).Info("Use storage")
	return store
}
