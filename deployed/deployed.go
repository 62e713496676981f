// Package deployed locates the per-network files describing the
// deployed pool application: app id, ARC32 schema, verifier bytecode.
package deployed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

type Network int

const (
	MainNet Network = iota
	TestNet
	DevNet
)

func (n Network) String() string {
	return [...]string{"mainnet", "testnet", "devnet"}[n]
}

func (n Network) DirPath() string {
	return [...]string{MainNetDirPath, TestNetDirPath, DevnetDirPath}[n]
}

func (n Network) LogFilePath() string {
	return filepath.Join(LogsPath, n.String()+".log")
}

const (
	DevnetDirName  = "devnet"
	TestNetDirName = "testnet"
	MainNetDirName = "mainnet"

	AppFilename              = "App.json"
	AppSchemaFilename        = "Pool.arc32.json"
	VerifierBytecodeFilename = "WithdrawalVerifier.tok"
	NoteIndexTrackerFilename = "NoteIndexes.json"
)

var (
	LogsPath       string
	EnvDirPath     string
	DevnetDirPath  string
	TestNetDirPath string
	MainNetDirPath string
)

func init() {
	_, filename, _, _ := runtime.Caller(0) // this file
	basePath := filepath.Dir(filename)     // the dir of this file
	EnvDirPath = basePath
	LogsPath = basePath
	DevnetDirPath = filepath.Join(basePath, DevnetDirName)
	TestNetDirPath = filepath.Join(basePath, TestNetDirName)
	MainNetDirPath = filepath.Join(basePath, MainNetDirName)
	// create the directories if they do not exist
	for _, dir := range []string{DevnetDirPath, TestNetDirPath, MainNetDirPath} {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			panic("failed to create " + dir + ": " + err.Error())
		}
	}
}

// AppInfo is the deployed pool application record in App.json.
type AppInfo struct {
	Id            uint64 `json:"id"`
	CreationBlock uint64 `json:"creationBlock"`
}

// ReadAppInfo reads App.json from the network's directory.
func ReadAppInfo(network Network) (*AppInfo, error) {
	info := &AppInfo{}
	path := filepath.Join(network.DirPath(), AppFilename)
	if err := DecodeJSONFile(path, info); err != nil {
		return nil, err
	}
	return info, nil
}

// DecodeJSONFile decodes the JSON filepath into the given value.
func DecodeJSONFile(filepath string, v interface{}) error {
	file, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("error opening file %s: %v", filepath, err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("error decoding file %s: %v", filepath, err)
	}
	return nil
}
