package command

import (
	"fmt"

	"github.com/pixil98/go-service"

	"github.com/pixil98/go-mud-items/internal/commands"
	"github.com/pixil98/go-mud-items/internal/container"
	"github.com/pixil98/go-mud-items/internal/driver"
	"github.com/pixil98/go-mud-items/internal/messaging"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	store, err := cfg.Storage.BuildStore()
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	g, err := cfg.Guard.buildGuard()
	if err != nil {
		return nil, fmt.Errorf("creating mutation guard: %w", err)
	}

	nats, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	publisher := messaging.NewPlayerPublisher(nats)

	containers := container.NewService(store, g,
		container.WithNotifier(commands.NewDecayNotifier(publisher)),
	)
	handler := commands.NewHandler(g, containers, store, publisher)

	players, ok := store.(commands.PlayerStore)
	if !ok {
		return nil, fmt.Errorf("store does not support player lookup")
	}
	consumer := commands.NewConsumer(handler, players, nats)

	tickLength, err := cfg.tickLength()
	if err != nil {
		return nil, fmt.Errorf("parsing tick_interval: %w", err)
	}
	decay := driver.NewItemDriver([]driver.Manager{containers},
		driver.WithTickLength(tickLength),
	)

	return service.WorkerList{
		"nats":     nats,
		"consumer": consumer,
		"driver":   decay,
	}, nil
}
