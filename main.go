package main

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	apix "github.com/tanpawarit/crm-insights-gateway/gateway/api"
	contractx "github.com/tanpawarit/crm-insights-gateway/gateway/contract"
	crmx "github.com/tanpawarit/crm-insights-gateway/gateway/crm"
	llmx "github.com/tanpawarit/crm-insights-gateway/gateway/llm"
	summaryx "github.com/tanpawarit/crm-insights-gateway/gateway/summary"
	supervisorx "github.com/tanpawarit/crm-insights-gateway/gateway/supervisor"
	configx "github.com/tanpawarit/crm-insights-gateway/pkg/config"
	httpx "github.com/tanpawarit/crm-insights-gateway/pkg/httpframework"
	_ "github.com/tanpawarit/crm-insights-gateway/pkg/logger/autoload"
	metricx "github.com/tanpawarit/crm-insights-gateway/pkg/metric"
)

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[httpx.Config]("APP")
	metricCfg := configx.MustNew[metricx.Config]("METRIC")
	llmCfg := configx.MustNew[llmx.Config]("OPENAI")
	summaryCfg := configx.MustNew[summaryx.Config]("SUMMARY")

	crmCfg, err := configx.New[crmx.Config]("HUBSPOT")
	if err != nil {
		log.Fatal().Err(err).Msg("invalid crm configuration")
	}

	if err := metricx.Init(*metricCfg); err != nil {
		log.Warn().Err(err).Msg("metrics disabled")
	}
	defer metricx.Close()

	crmClient := crmx.MustNew(*crmCfg)

	var completer contractx.Completer
	if llmCfg.Enabled() {
		completer, err = llmx.New(ctx, *llmCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize completion client")
		}
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, AI summary disabled")
	}

	summaries, err := summaryx.New(crmClient, completer, *summaryCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize summary service")
	}

	controller, err := apix.NewController(crmClient, summaries, apix.Config{
		ListLimit:              crmCfg.PageSize(),
		DealContactAssociation: crmCfg.DealContactAssociation(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize controller")
	}

	var sup *supervisorx.Supervisor
	router := httpx.New(*appCfg, func(err error) { sup.Fault(err) })
	controller.Register(router)
	httpx.ServeStatic(router, appCfg.StaticDir)

	sup = supervisorx.New(httpx.NewServer(*appCfg, router), supervisorx.WithDrainTimeout(appCfg.ShutdownTimeout))

	if err := sup.Run(ctx); err != nil {
		if errors.Is(err, supervisorx.ErrForcedShutdown) {
			log.Error().Err(err).Msg("forced shutdown")
		} else {
			log.Error().Err(err).Msg("server stopped with error")
		}
		metricx.Close()
		os.Exit(1)
	}
}
