package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/username/vacation-days/internal/calendar"
	"github.com/username/vacation-days/internal/config"
	"github.com/username/vacation-days/internal/vacation"
	"go.uber.org/zap"
)

// components holds everything built from config for one command run
type components struct {
	cache calendar.MonthCache
	calc  *vacation.Calculator
	close func()
}

func initializeComponents(cfg *config.Config) (*components, error) {
	cache, closeCache, err := initializeCache(cfg)
	if err != nil {
		return nil, err
	}

	oracle, err := initializeOracle(cfg, cache)
	if err != nil {
		closeCache()
		return nil, err
	}

	policy, err := initializePolicy(cfg)
	if err != nil {
		closeCache()
		return nil, err
	}

	return &components{
		cache: cache,
		calc:  vacation.NewCalculator(oracle, policy, logger),
		close: closeCache,
	}, nil
}

func initializeCache(cfg *config.Config) (calendar.MonthCache, func(), error) {
	ttl := cfg.Calendar.GetCacheTTL()

	if cfg.Calendar.Cache != "redis" {
		return calendar.NewMemoryCache(ttl), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// The cache degrades to misses, lookups still work
		logger.Warn("Redis is not reachable",
			zap.String("addr", cfg.Redis.Addr),
			zap.Error(err))
	} else {
		logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	return calendar.NewRedisCache(client, ttl, logger), closeFn, nil
}

func initializeOracle(cfg *config.Config, cache calendar.MonthCache) (calendar.Oracle, error) {
	switch cfg.Calendar.Type {
	case "hebcal":
		primary := calendar.NewHebcalOracle(cfg.Calendar.APIURL, cache, logger)

		var fallback calendar.Oracle
		switch cfg.Calendar.Fallback {
		case "builtin", "":
			fallback = calendar.NewRulesOracle(logger)
		case "file":
			fallback = calendar.NewFileOracle(cfg.Calendar.FallbackFile, logger)
		default:
			logger.Info("Using hebcal calendar without fallback")
			return primary, nil
		}

		composite := calendar.NewCompositeOracle(primary, fallback, logger)
		if err := composite.LoadFallback(); err != nil {
			return nil, err
		}
		logger.Info("Using hebcal calendar with fallback",
			zap.String("api_url", cfg.Calendar.APIURL),
			zap.String("fallback", cfg.Calendar.Fallback))
		return composite, nil

	case "file":
		file := calendar.NewFileOracle(cfg.Calendar.File, logger)
		if err := file.Load(); err != nil {
			return nil, err
		}
		return file, nil

	case "builtin", "":
		return calendar.NewRulesOracle(logger), nil

	default:
		return nil, fmt.Errorf("unknown calendar type: %s", cfg.Calendar.Type)
	}
}

func initializePolicy(cfg *config.Config) (vacation.Policy, error) {
	weekend, err := cfg.Policy.Weekend()
	if err != nil {
		return vacation.Policy{}, err
	}

	policy := vacation.DefaultPolicy()
	policy.Weekend = weekend
	policy.HalfDayNames = cfg.Policy.HalfDayNames
	policy.NationalDayNames = cfg.Policy.NationalDayNames
	policy.Israel = cfg.Calendar.Israel
	return policy, nil
}
