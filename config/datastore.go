package config

import (
	"log"
	"sync"

	"github.com/cppla/inkwell/store"
)

var (
	data   *store.Store
	dataMu sync.Mutex
)

// InitDataStore opens the users and posts files configured in c. It is safe
// to call more than once; later calls return the already opened store.
func InitDataStore(c AppConfig) (*store.Store, error) {
	dataMu.Lock()
	defer dataMu.Unlock()
	if data != nil {
		return data, nil
	}

	st, err := store.OpenFiles(c.Data.Dir, c.Data.UsersFile, c.Data.PostsFile)
	if err != nil {
		return nil, err
	}
	data = st
	return data, nil
}

// Data provides access to the initialized store.
func Data() *store.Store {
	dataMu.Lock()
	defer dataMu.Unlock()
	if data == nil {
		log.Fatal("data store not initialized, call InitDataStore first")
	}
	return data
}
