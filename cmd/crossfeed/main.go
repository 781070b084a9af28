package main

import (
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/openlane/crossfeed/api"
	"github.com/openlane/crossfeed/internal/config"
	"github.com/openlane/crossfeed/internal/matching"
	"github.com/openlane/crossfeed/internal/orderbook"
	"github.com/openlane/crossfeed/internal/settlement"
	"github.com/openlane/crossfeed/pkg/logger"
	"github.com/openlane/crossfeed/pkg/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	sourceChain, err := models.ParseChain(cfg.SourceChain)
	if err != nil {
		zapLogger.Fatal("bad source chain", zap.Error(err))
	}
	destChain, err := models.ParseChain(cfg.DestChain)
	if err != nil {
		zapLogger.Fatal("bad destination chain", zap.Error(err))
	}

	topology := matching.Topology{
		Source:    sourceChain,
		Dest:      destChain,
		Taker:     cfg.TakerAddress,
		Threshold: cfg.Threshold,
	}
	senderKeys := make(map[string]string, len(cfg.Makers))
	for _, m := range cfg.Makers {
		topology.Makers = append(topology.Makers, matching.MakerShare{
			Address: m.Address,
			Amount:  m.Share,
		})
		senderKeys[m.Address] = m.PrivateKey
	}

	state, err := orderbook.New(zapLogger, topology, cfg.MinTakerAmount, cfg.MakerSeedAmount)
	if err != nil {
		zapLogger.Fatal("failed to seed session state", zap.Error(err))
	}

	transfers, err := settlement.NewEVMClient(cfg.RPCURL, cfg.TokenAddress, senderKeys, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to create transfer client", zap.Error(err))
	}
	executor := settlement.NewExecutor(transfers, cfg.TransferTimeout, zapLogger)

	server := api.NewServer(zapLogger, state, executor)
	if err := server.Start(cfg.ListenAddr); err != nil {
		zapLogger.Fatal("server exited", zap.Error(err))
	}
}
