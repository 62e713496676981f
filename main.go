package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/veilpool/VeilPool-sdk/avm"
	"github.com/veilpool/VeilPool-sdk/deployed"
	"github.com/veilpool/VeilPool-sdk/encrypt"
	"github.com/veilpool/VeilPool-sdk/indexer"
	"github.com/veilpool/VeilPool-sdk/keys"
	"github.com/veilpool/VeilPool-sdk/pool"
	"github.com/veilpool/VeilPool-sdk/tracker"
	"github.com/veilpool/VeilPool-sdk/zk"

	"github.com/rs/zerolog"
)

func main() {
	// Ensure at least two arguments are provided: command and networkName
	if len(os.Args) < 3 {
		fmt.Println(helpString())
		os.Exit(1)
	}

	command := os.Args[1]
	networkName := os.Args[2]

	if command != "withdraw" && command != "encrypt-passphrase" {
		fmt.Printf("Invalid command: %s\n", command)
		fmt.Println("Valid commands are: withdraw, encrypt-passphrase")
		os.Exit(1)
	}

	if networkName != "mainnet" && networkName != "testnet" && networkName != "devnet" {
		fmt.Printf("Invalid network: %s\n", networkName)
		fmt.Println("Valid networks are: mainnet, testnet, devnet")
		os.Exit(1)
	}

	var network deployed.Network
	switch networkName {
	case "mainnet":
		network = deployed.MainNet
	case "testnet":
		network = deployed.TestNet
	case "devnet":
		network = deployed.DevNet
	}

	logFile := initializeLog(network)
	defer logFile.Close()

	switch command {
	case "withdraw":
		if len(os.Args) != 4 {
			fmt.Println("Usage: withdraw <networkName> <requestFile>")
			os.Exit(1)
		}
		withdraw(network, os.Args[3], logFile)
	case "encrypt-passphrase":
		encryptPassphrase()
	}
}

// helpString returns the help string for the command line interface
func helpString() string {
	help := "Usage: <command> <networkName> [requestFile]\n"
	help += "Commands: withdraw, encrypt-passphrase\n"
	help += "Networks: mainnet, testnet, devnet\n"
	return help
}

// requestFile is the JSON shape of a withdrawal request file. Scalars
// are decimal strings; amounts are decimal Algo strings.
type requestFile struct {
	Note struct {
		Commitment string `json:"commitment"`
		Amount     string `json:"amount"`
		Label      string `json:"label"`
		NoteIndex  uint64 `json:"noteIndex"`
	} `json:"note"`
	WithdrawAmount   string `json:"withdrawAmount"`
	RecipientAddress string `json:"recipientAddress"`
	Mnemonic         string `json:"mnemonic,omitempty"`
}

// withdraw prepares a withdrawal from the request file, shows the fee
// breakdown, and submits only after explicit confirmation.
func withdraw(network deployed.Network, requestPath string, logFile *os.File) {
	request, err := readRequest(requestPath)
	if err != nil {
		log.Fatalf("Failed to read request file: %v", err)
	}

	avm.Initialize(network)
	app, err := avm.LoadApp(network)
	if err != nil {
		log.Fatalf("Failed to load app: %v", err)
	}

	trackerPath := filepath.Join(network.DirPath(), deployed.NoteIndexTrackerFilename)
	indexes, err := tracker.NewFileTracker(trackerPath)
	if err != nil {
		log.Fatalf("Failed to open note index tracker: %v", err)
	}

	log.Println("Compiling withdrawal circuit, this can take a while...")
	prover, err := zk.NewGroth16Prover()
	if err != nil {
		log.Fatalf("Failed to set up prover: %v", err)
	}

	logger := zerolog.New(io.MultiWriter(os.Stdout, logFile)).
		With().Timestamp().Logger()

	p := &pool.Pipeline{
		Fetcher:   indexer.NewAlgodFetcher(avm.GetAlgodClient(), app.Id),
		Tracker:   indexes,
		Prover:    prover,
		Preparer:  app,
		Processor: app.Relay.Address,
		PoolAppID: app.Id,
		Logger:    logger,
	}

	prepared, err := p.ProcessWithdrawal(context.Background(), request)
	if err != nil {
		log.Fatalf("Failed to prepare withdrawal: %v", err)
	}

	fmt.Printf("Withdrawing %s to %s\n", prepared.Amounts.WithdrawAmount,
		request.RecipientAddress)
	fmt.Printf("Execution fee: %s | you receive: %s\n",
		prepared.Amounts.ExecutionFee, prepared.Amounts.YouReceive)
	fmt.Print("Submit? (y/N): ")

	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if strings.TrimSpace(strings.ToLower(answer)) != "y" {
		fmt.Println("Aborted, nothing submitted")
		return
	}

	txIDs, err := p.ExecuteWithdrawal(context.Background(), prepared)
	if err != nil {
		log.Fatalf("Failed to execute withdrawal: %v", err)
	}
	fmt.Printf("Withdrawal confirmed, transactions: %s\n", strings.Join(txIDs, ", "))
}

// readRequest decodes a request file into a WithdrawalRequest.
func readRequest(path string) (*pool.WithdrawalRequest, error) {
	rf := requestFile{}
	if err := deployed.DecodeJSONFile(path, &rf); err != nil {
		return nil, err
	}
	commitment, ok := new(big.Int).SetString(rf.Note.Commitment, 10)
	if !ok {
		return nil, fmt.Errorf("bad commitment %q", rf.Note.Commitment)
	}
	label, ok := new(big.Int).SetString(rf.Note.Label, 10)
	if !ok {
		return nil, fmt.Errorf("bad label %q", rf.Note.Label)
	}
	return &pool.WithdrawalRequest{
		Note: &pool.Note{
			Commitment: commitment,
			Amount:     rf.Note.Amount,
			Label:      label,
			NoteIndex:  rf.Note.NoteIndex,
		},
		WithdrawAmount:   rf.WithdrawAmount,
		RecipientAddress: rf.RecipientAddress,
		Credential:       keys.Credential{Mnemonic: rf.Mnemonic},
	}, nil
}

// encryptPassphrase encrypts a mnemonic passphrase for storage in the
// network env file.
func encryptPassphrase() {
	fmt.Print("Enter mnemonic passphrase: ")
	reader := bufio.NewReader(os.Stdin)
	passphrase, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read passphrase: %v", err)
	}
	encrypted, err := encrypt.Encrypt(strings.TrimSpace(passphrase))
	if err != nil {
		log.Fatalf("Failed to encrypt passphrase: %v", err)
	}
	fmt.Printf("Encrypted passphrase:\n%s\n", encrypted)
}

// initializeLog sets the log output to both stdout and the log file.
// It returns the log file.
func initializeLog(network deployed.Network) *os.File {
	logFilePath := network.LogFilePath()

	var logFile *os.File
	var err error
	// for devnet we rewrite the log file, for testnet and mainnet we append
	if network == deployed.DevNet {
		logFile, err = os.Create(logFilePath)
	} else {
		logFile, err = os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	}
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(multiWriter)

	return logFile
}
