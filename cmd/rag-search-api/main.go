package main

// @title           RAG Search API
// @version         1.0
// @description     Retrieval-augmented generation over uploaded documents. Ingests text, markdown, and PDF files, indexes their chunk embeddings, and answers natural-language questions grounded in the indexed content.

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/jasiel-hdz/rag-search-api/internal/adapters/driven/ai"
	"github.com/jasiel-hdz/rag-search-api/internal/adapters/driven/auth"
	"github.com/jasiel-hdz/rag-search-api/internal/adapters/driven/chroma"
	"github.com/jasiel-hdz/rag-search-api/internal/adapters/driven/memory"
	"github.com/jasiel-hdz/rag-search-api/internal/adapters/driven/postgres"
	redisadapter "github.com/jasiel-hdz/rag-search-api/internal/adapters/driven/redis"
	"github.com/jasiel-hdz/rag-search-api/internal/adapters/driven/storage"
	"github.com/jasiel-hdz/rag-search-api/internal/adapters/driving/http"
	"github.com/jasiel-hdz/rag-search-api/internal/chunker"
	"github.com/jasiel-hdz/rag-search-api/internal/config"
	"github.com/jasiel-hdz/rag-search-api/internal/core/ports/driven"
	"github.com/jasiel-hdz/rag-search-api/internal/core/services"
)

var version = "dev"

func main() {
	log.Printf("rag-search-api %s starting", version)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// ===== Initialize PostgreSQL =====
	log.Println("Connecting to PostgreSQL...")
	db, err := postgres.Connect(ctx, postgres.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize schema (idempotent)
	if err := db.InitSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("PostgreSQL connected and schema initialized")

	// ===== Initialize Redis (optional) =====
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Redis connected")
	}

	// ===== Distributed Lock (Redis if available, otherwise PostgreSQL advisory locks) =====
	var ingestLock driven.DistributedLock
	var cachePinger http.Pinger
	if redisClient != nil {
		redisLock := redisadapter.NewLock(redisClient)
		ingestLock = redisLock
		cachePinger = redisLock
		log.Println("Using Redis distributed lock")
	} else {
		ingestLock = postgres.NewAdvisoryLock(db)
		log.Println("Using PostgreSQL advisory lock")
	}

	// ===== Vector Index =====
	var index driven.VectorIndex
	switch cfg.VectorBackend {
	case "chroma":
		log.Println("Connecting to Chroma...")
		chromaIndex, err := chroma.NewVectorIndex(ctx, cfg.ChromaURL, cfg.Collection)
		if err != nil {
			log.Fatalf("Failed to create Chroma index: %v", err)
		}
		if err := chromaIndex.HealthCheck(ctx); err != nil {
			log.Printf("Warning: Chroma health check failed: %v (retrieval may not work)", err)
		} else {
			log.Println("Chroma connected")
		}
		index = chromaIndex
	default:
		log.Println("Using in-memory vector index (vectors are lost on restart)")
		index = memory.NewVectorIndex()
	}

	// ===== OpenAI =====
	embedding, err := ai.NewOpenAIEmbedding(cfg.OpenAIAPIKey, cfg.OpenAIEmbeddingModel, cfg.OpenAIBaseURL)
	if err != nil {
		log.Fatalf("Failed to create embedding service: %v", err)
	}
	defer embedding.Close()

	generation, err := ai.NewOpenAIGeneration(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	if err != nil {
		log.Fatalf("Failed to create generation service: %v", err)
	}
	defer generation.Close()

	// ===== Remaining driven adapters =====
	authAdapter := auth.NewAdapter(cfg.JWTSecret)
	documentStore := postgres.NewDocumentStore(db)
	chunkStore := postgres.NewChunkStore(db)

	fileStorage, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to create upload storage: %v", err)
	}

	textChunker, err := chunker.New(chunker.Config{
		ChunkSize: cfg.ChunkSize,
		Overlap:   cfg.ChunkOverlap,
	})
	if err != nil {
		log.Fatalf("Invalid chunker configuration: %v", err)
	}

	// ===== Services (core business logic) =====
	authService, err := services.NewAuthService(authAdapter, cfg.AdminPassword, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to create auth service: %v", err)
	}
	ingestionService := services.NewIngestionService(services.IngestionConfig{
		Chunker:        textChunker,
		Embedding:      embedding,
		Index:          index,
		Documents:      documentStore,
		Chunks:         chunkStore,
		Lock:           ingestLock,
		EmbedBatchSize: cfg.EmbedBatchSize,
	})
	ragService := services.NewRAGService(services.RAGConfig{
		Embedding:   embedding,
		Index:       index,
		Generation:  generation,
		Collection:  cfg.Collection,
		TopKDefault: cfg.TopKDefault,
	})
	documentService := services.NewDocumentService(documentStore, chunkStore, index)

	log.Printf("Pipeline config: chunk_size=%d overlap=%d top_k=%d embedding_model=%s generation_model=%s vector_backend=%s",
		cfg.ChunkSize, cfg.ChunkOverlap, cfg.TopKDefault, embedding.Model(), generation.Model(), cfg.VectorBackend)

	// ===== HTTP server =====
	server := http.NewServer(
		http.Config{
			Host:           cfg.Host,
			Port:           cfg.Port,
			Version:        version,
			AllowedOrigins: cfg.AllowedOrigins,
		},
		authService,
		ingestionService,
		ragService,
		documentService,
		fileStorage,
		index,
		db,
		cachePinger,
	)

	log.Printf("API server starting on %s:%d", cfg.Host, cfg.Port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
