// Dev tool: asks a local Ollama instance for the third micro-quest of a
// track and prints the three assembled quests.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/communityforge/sprint/internal/config"
	"github.com/communityforge/sprint/internal/quests"
	"github.com/communityforge/sprint/pkg/ollama"
)

func main() {
	track := flag.String("track", "Dev", "track to generate quests for")
	baseURL := flag.String("url", "http://localhost:11434", "Ollama base URL")
	model := flag.String("model", "llama3.2", "model name")
	flag.Parse()

	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatal(err)
	}
	cfg.Ollama.BaseURL = *baseURL
	cfg.Engine.Model = *model

	client, err := ollama.NewDefaultClient(cfg.Ollama)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	engine, err := quests.NewEngine(client, cfg.Engine)
	if err != nil {
		log.Fatal(err)
	}

	provider := quests.NewProvider(engine, cfg.Community, nil)
	for i, q := range provider.ForTrack(context.Background(), *track) {
		fmt.Printf("%d. %s\n   %s\n", i+1, q.Title, q.Instructions)
	}
}
