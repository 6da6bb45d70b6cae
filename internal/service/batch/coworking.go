package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/uma-arai/sbcntr-coworking/internal/common/config"
	"github.com/uma-arai/sbcntr-coworking/internal/common/database"
	"github.com/uma-arai/sbcntr-coworking/internal/common/utils"
	"github.com/uma-arai/sbcntr-coworking/internal/model"
	"github.com/uma-arai/sbcntr-coworking/internal/repository"
	"github.com/uma-arai/sbcntr-coworking/internal/store"
)

// ErrNoMembers は会員の登録後も会員が1件も取得できなかったことを表します
// DBに接続できない場合はこのエラーでバッチを失敗させます
var ErrNoMembers = errors.New("no members available after registration")

// RecordStore はデモで利用するレコードストアの操作です
type RecordStore interface {
	CreateMember(ctx context.Context, name, email string, phoneNumber *string) int64
	CreateSpace(ctx context.Context, name, spaceType string, capacity int, hourlyRate decimal.Decimal) int64
	CreateBooking(ctx context.Context, memberID, spaceID int64, startTime, endTime time.Time) int64
	ListMembers(ctx context.Context) []model.Member
	ListSpaces(ctx context.Context) []model.Space
	ListBookings(ctx context.Context) []model.Booking
	UpdateMemberPhone(ctx context.Context, email, newPhoneNumber string) int64
	DeleteBooking(ctx context.Context, bookingID int64) int64
}

// SFNClient はStep Functionsへのタスク結果通知に使う操作です
type SFNClient interface {
	SendTaskSuccess(ctx context.Context, params *sfn.SendTaskSuccessInput, optFns ...func(*sfn.Options)) (*sfn.SendTaskSuccessOutput, error)
}

// CoworkingBatchService はコワーキングスペースのデモバッチを担当します
type CoworkingBatchService struct {
	db        *repository.DB
	store     RecordStore
	sfnClient SFNClient
	cfg       *config.Config
	log       zerolog.Logger
	out       io.Writer
	now       func() time.Time
}

// NewCoworkingBatchService は新しいCoworkingBatchServiceを作成します
func NewCoworkingBatchService(ctx context.Context, cfg *config.Config, sfnClient SFNClient, log zerolog.Logger) (*CoworkingBatchService, error) {
	conn, err := database.Open(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}
	log.Info().Str("host", cfg.DB.Host).Str("dbname", cfg.DB.DBName).Msg("Connected to the database successfully")

	db := repository.NewDB(conn, log)

	return &CoworkingBatchService{
		db:        db,
		store:     store.NewFromDB(db, log),
		sfnClient: sfnClient,
		cfg:       cfg,
		log:       log,
		out:       os.Stdout,
		now:       time.Now,
	}, nil
}

// Close は終了処理を行います
func (s *CoworkingBatchService) Close() error {
	if s.db != nil {
		s.log.Info().Msg("Database connection closed")
		return s.db.Close()
	}
	return nil
}

// Run はデモバッチを実行します
func (s *CoworkingBatchService) Run(ctx context.Context) error {
	// X-Rayセグメントの作成
	ctx, seg := xray.BeginSubsegment(ctx, "CoworkingBatchService.Run")
	if seg != nil {
		defer seg.Close(nil)
	}

	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Logger()
	startTime := time.Now()

	report, err := s.runDemo(ctx, runID)
	if err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to run coworking demo: %w", err))
	}

	if err := s.sendTaskSuccess(ctx, report); err != nil {
		return utils.GetStackWithError(fmt.Errorf("failed to send task success: %w", err))
	}

	duration := time.Since(startTime)

	// セグメントにメタデータを追加
	if seg != nil {
		if err := seg.AddMetadata("duration", duration.String()); err != nil {
			log.Warn().Err(err).Msg("Failed to add duration metadata")
		}
	}

	log.Info().
		Dur("duration", duration).
		Int("members", report.MemberCount).
		Int("spaces", report.SpaceCount).
		Int("bookings", report.BookingCount).
		Msg("Coworking demo batch completed successfully")
	return nil
}

// runDemo は会員・スペース・予約の登録、一覧表示、電話番号の更新、予約の削除を順に行います
func (s *CoworkingBatchService) runDemo(ctx context.Context, runID string) (*model.DemoReport, error) {
	report := &model.DemoReport{RunID: runID}
	now := s.now()

	s.section("Adding New Members")
	alicePhone := "111-222-3333"
	bobPhone := "444-555-6666"
	member1 := s.store.CreateMember(ctx, "Alice Wonderland", "alice@example.com", &alicePhone)
	member2 := s.store.CreateMember(ctx, "Bob The Builder", "bob@example.com", &bobPhone)
	member3 := s.store.CreateMember(ctx, "Charlie Chaplin", "charlie@example.com", nil)
	report.MemberIDs = validIDs(member1, member2, member3)

	s.section("Adding New Spaces")
	space1 := s.store.CreateSpace(ctx, "Meeting Room Alpha", "Meeting Room", 8, decimal.RequireFromString("50.00"))
	space2 := s.store.CreateSpace(ctx, "Hot Desk Zone 1", "Hot Desk", 1, decimal.RequireFromString("15.00"))
	space3 := s.store.CreateSpace(ctx, "Private Office 3B", "Private Office", 1, decimal.RequireFromString("100.00"))
	report.SpaceIDs = validIDs(space1, space2, space3)

	// 登録に失敗した会員・スペースの予約は行わない
	s.section("Adding Bookings")
	tomorrow := now.AddDate(0, 0, 1)
	if member1 != store.InvalidID && space1 != store.InvalidID {
		report.BookingIDs = append(report.BookingIDs,
			s.store.CreateBooking(ctx, member1, space1, now.Add(1*time.Hour), now.Add(2*time.Hour)))
	}
	if member1 != store.InvalidID && space2 != store.InvalidID {
		report.BookingIDs = append(report.BookingIDs,
			s.store.CreateBooking(ctx, member1, space2, atHour(tomorrow, 9), atHour(tomorrow, 17)))
	}
	if member2 != store.InvalidID && space1 != store.InvalidID {
		report.BookingIDs = append(report.BookingIDs,
			s.store.CreateBooking(ctx, member2, space1, now.Add(3*time.Hour), now.Add(4*time.Hour)))
	}
	report.BookingIDs = validIDs(report.BookingIDs...)

	s.section("All Members")
	members := s.store.ListMembers(ctx)
	printAll(s.out, members)
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	s.section("All Spaces")
	printAll(s.out, s.store.ListSpaces(ctx))

	s.section("All Bookings")
	bookings := s.store.ListBookings(ctx)
	printAll(s.out, bookings)

	s.section("Updating Member Phone Number")
	report.PhoneUpdated = s.store.UpdateMemberPhone(ctx, "alice@example.com", "999-888-7777")
	fmt.Fprintf(s.out, "Updated %d row(s) for Alice.\n", report.PhoneUpdated)

	s.section("Members After Update")
	members = s.store.ListMembers(ctx)
	printAll(s.out, members)

	s.section("Deleting a Booking")
	if len(bookings) > 0 {
		report.DeletedBooking = bookings[0].ID
		report.BookingDeleted = s.store.DeleteBooking(ctx, bookings[0].ID)
		fmt.Fprintf(s.out, "Deleted %d row(s) for booking ID %d\n", report.BookingDeleted, report.DeletedBooking)
	} else {
		fmt.Fprintln(s.out, "No bookings to delete.")
	}

	s.section("Bookings After Deletion")
	bookings = s.store.ListBookings(ctx)
	printAll(s.out, bookings)

	report.MemberCount = len(members)
	report.SpaceCount = len(s.store.ListSpaces(ctx))
	report.BookingCount = len(bookings)

	return report, nil
}

// sendTaskSuccess は、Step Functionsのタスク成功を通知し、実行結果を返却します
func (s *CoworkingBatchService) sendTaskSuccess(ctx context.Context, report *model.DemoReport) error {
	// ローカルの場合はStep Functionsの処理をスキップ
	if os.Getenv("ENV") == "LOCAL" || s.sfnClient == nil {
		s.log.Info().Msg("Local environment detected. Skipping Step Functions task success notification")
		return nil
	}

	output, err := json.Marshal(map[string]any{
		"report": report,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	// タスクトークンを設定から取得
	taskToken := s.cfg.SFN.TaskToken
	if taskToken == "" {
		return fmt.Errorf("SFN_TASK_TOKEN is not set in config")
	}

	input := &sfn.SendTaskSuccessInput{
		TaskToken: aws.String(taskToken),
		Output:    aws.String(string(output)),
	}

	if _, err := s.sfnClient.SendTaskSuccess(ctx, input); err != nil {
		return fmt.Errorf("failed to send task success: %w", err)
	}

	s.log.Info().RawJSON("output", output).Msg("Successfully sent task success")
	return nil
}

func (s *CoworkingBatchService) section(title string) {
	fmt.Fprintf(s.out, "\n--- %s ---\n", title)
}

func printAll[T fmt.Stringer](w io.Writer, items []T) {
	for _, item := range items {
		fmt.Fprintln(w, item.String())
	}
}

func atHour(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}

// validIDs は登録に失敗したIDを除外します
func validIDs(ids ...int64) []int64 {
	valid := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != store.InvalidID {
			valid = append(valid, id)
		}
	}
	return valid
}
