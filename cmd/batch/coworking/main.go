package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/rs/zerolog/log"
	"github.com/uma-arai/sbcntr-coworking/internal/common/config"
	"github.com/uma-arai/sbcntr-coworking/internal/common/logger"
	"github.com/uma-arai/sbcntr-coworking/internal/common/utils"
	"github.com/uma-arai/sbcntr-coworking/internal/service/batch"
)

const (
	projectName = "sbcntr-coworking"
)

func main() {
	// コマンドライン引数のパース
	timeout := flag.Duration("timeout", 5*time.Minute, "バッチ処理のタイムアウト時間")
	flag.Parse()

	// 最後の引数として渡されたタスクトークンを取得
	// ENV=LOCALの場合はタスクトークンを取得しない
	taskToken := "DUMMY_TASK_TOKEN"
	if os.Getenv("ENV") != "LOCAL" {
		if flag.NArg() == 0 {
			log.Fatal().Msg("Task token is required")
		}
		taskToken = flag.Arg(flag.NArg() - 1)
	}

	// 設定の読み込み
	cfg, err := config.LoadConfig(taskToken)
	if err != nil {
		log.Fatal().Err(utils.GetStackWithError(err)).Msg("Failed to load config")
	}

	lg := logger.New(cfg.Log)

	// X-Ray設定
	if cfg.EnableTracing {
		if err := xray.Configure(xray.Config{
			DaemonAddr:     "127.0.0.1:2000", // X-Rayデーモンのアドレス
			ServiceVersion: "1.0.0",
		}); err != nil {
			lg.Warn().Err(err).Msg("Failed to configure X-Ray")
			// X-Ray設定失敗時はデフォルトの設定を使用
			if configErr := xray.Configure(xray.Config{}); configErr != nil {
				lg.Fatal().Err(configErr).Msg("Failed to configure default X-Ray settings")
			}
		}
		os.Setenv("AWS_XRAY_CONTEXT_MISSING", "LOG_ERROR")
	}

	// Step Functionsクライアントの初期化
	var sfnClient *sfn.Client
	if os.Getenv("ENV") != "LOCAL" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			lg.Fatal().Err(utils.GetStackWithError(err)).Msg("Failed to load AWS config")
		}
		sfnClient = sfn.NewFromConfig(awsCfg)
	}

	// コンテキストの作成
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// X-Rayセグメントの作成
	if cfg.EnableTracing {
		var seg *xray.Segment
		ctx, seg = xray.BeginSegment(ctx, projectName)
		defer seg.Close(nil)

		// セグメントにメタデータを追加
		if err := seg.AddMetadata("timeout", timeout.String()); err != nil {
			lg.Warn().Err(err).Msg("Failed to add timeout metadata")
		}
	}

	// サービスの初期化
	// sfnClientがnilの場合はインターフェースにnilを渡す
	var notifier batch.SFNClient
	if sfnClient != nil {
		notifier = sfnClient
	}
	service, err := batch.NewCoworkingBatchService(ctx, cfg, notifier, lg)
	if err != nil {
		lg.Error().Err(utils.GetStackWithError(err)).Msg("Failed to create service")
		sendTaskFailure(ctx, sfnClient, taskToken)
		os.Exit(1)
	}
	defer service.Close()

	// シグナルハンドリングの設定
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// バッチ処理の実行
	errChan := make(chan error, 1)
	go func() {
		errChan <- utils.RunWithTimeout(ctx, *timeout, service.Run)
	}()

	// シグナルまたはエラーの待機
	select {
	case sig := <-sigChan:
		lg.Warn().Str("signal", sig.String()).Msg("Received signal")
		cancel()
	case err := <-errChan:
		if err != nil {
			lg.Error().Err(err).Msg("Batch process failed")
			sendTaskFailure(ctx, sfnClient, taskToken)
			service.Close()
			os.Exit(1)
		}
		lg.Info().Msg("Batch process completed successfully")
	}
}

// sendTaskFailure はローカル環境以外の場合のみStep Functionsのエラー通知を行います
func sendTaskFailure(ctx context.Context, sfnClient *sfn.Client, taskToken string) {
	if os.Getenv("ENV") == "LOCAL" || sfnClient == nil {
		return
	}

	input := &sfn.SendTaskFailureInput{
		TaskToken: aws.String(taskToken),
		Error:     aws.String("Batch process failed"),
	}

	// タイムアウト後でも通知できるよう新しいコンテキストを使う
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if _, err := sfnClient.SendTaskFailure(notifyCtx, input); err != nil {
		log.Error().Err(utils.GetStackWithError(err)).Msg("Failed to send task failure")
	}
}
