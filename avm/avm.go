package avm

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/veilpool/VeilPool-sdk/deployed"

	"github.com/algorand/go-algorand-sdk/v2/abi"
	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/crypto"
)

var (
	algodClient  *algod.Client
	relayAccount *crypto.Account
)

// Initialize sets up the algod client and relay account for the network.
func Initialize(network deployed.Network) {
	initConfig(network)
	algodConfig := readAlgodConfig()
	var err error
	algodClient, err = algod.MakeClient(
		algodConfig.URL,
		algodConfig.Token,
	)
	if err != nil {
		log.Fatalf("Failed to create algod client: %v", err)
	}

	relayAccount, err = readRelayAccount()
	if err != nil {
		log.Fatalf("failed to get relay account: %v", err)
	}
}

func GetAlgodClient() *algod.Client {
	return algodClient
}

// GetRelayAccount returns the account that pays the withdrawal group
// fees and collects the relay fee.
func GetRelayAccount() *crypto.Account {
	return relayAccount
}

// Arc32Schema defines a partial ARC32 schema
type Arc32Schema struct {
	Source struct {
		Approval string `json:"approval"`
		Clear    string `json:"clear"`
	} `json:"source"`
	State struct {
		Global struct {
			NumByteSlices uint64 `json:"num_byte_slices"`
			NumUints      uint64 `json:"num_uints"`
		} `json:"global"`
		Local struct {
			NumByteSlices uint64 `json:"num_byte_slices"`
			NumUints      uint64 `json:"num_uints"`
		} `json:"local"`
	} `json:"state"`
	Contract abi.Contract `json:"contract"`
}

// ReadArc32Schema reads an ARC32 schema from a JSON file
func ReadArc32Schema(filepath string) (
	schema *Arc32Schema, err error) {

	file, err := os.Open(filepath)
	if err != nil {
		return schema, fmt.Errorf("error opening schema file: %v", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err = decoder.Decode(&schema); err != nil {
		return schema, fmt.Errorf("error decoding schema file: %v", err)
	}

	return schema, nil
}
