// Package main provides a developer CLI for working with the deck pipeline
// locally: parse a model completion, render a generation result to the
// Anki tab-delimited format, bundle rendered decks into a zip, or upload
// media to the intake bucket without going through the web front end.
package main

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mpark/ankimozzi/internal/deck"
	"github.com/mpark/ankimozzi/internal/lambdaboot"
	"github.com/mpark/ankimozzi/internal/logging"
	"github.com/mpark/ankimozzi/internal/parser"
	"github.com/mpark/ankimozzi/internal/pipeline"
	"github.com/mpark/ankimozzi/internal/transcription"
)

// zipMethodZstd is the ZIP compression method ID for Zstandard (APPNOTE 6.3.7).
const zipMethodZstd uint16 = 93

func init() {
	zip.RegisterCompressor(zipMethodZstd, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	})
}

// CLI flags
var (
	outputFlag string
	bucketFlag string
)

var rootCmd = &cobra.Command{
	Use:   "anki-cli",
	Short: "Developer tooling for the Ankimozzi deck pipeline",
	Long: `anki-cli works with deck pipeline artifacts locally.

Examples:
  anki-cli parse completion.txt          # parse a raw model completion
  anki-cli render result.json            # print a result as answer<TAB>question
  anki-cli bundle results/ -o decks.zip  # zip every rendered deck in a directory
  anki-cli upload lecture.mp4 -b my-intake-bucket`,
}

var parseCmd = &cobra.Command{
	Use:   "parse <completion-file>",
	Short: "Parse a raw model completion into a generation result",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

var renderCmd = &cobra.Command{
	Use:   "render <result-file>",
	Short: "Render a generation result as tab-delimited answer/question lines",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var bundleCmd = &cobra.Command{
	Use:   "bundle <results-dir>",
	Short: "Render every result in a directory and bundle the decks into a zip",
	Args:  cobra.ExactArgs(1),
	RunE:  runBundle,
}

var uploadCmd = &cobra.Command{
	Use:   "upload <media-file>",
	Short: "Upload a media file to the intake bucket",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	bundleCmd.Flags().StringVarP(&outputFlag, "output", "o", "decks.zip", "Output zip path")
	uploadCmd.Flags().StringVarP(&bucketFlag, "bucket", "b", "", "Intake bucket name (defaults to MEDIA_BUCKET_NAME)")
	rootCmd.AddCommand(parseCmd, renderCmd, bundleCmd, uploadCmd)
}

func main() {
	logging.Init()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read completion: %w", err)
	}

	parsed, err := parser.Parse(string(raw))
	if err != nil {
		return err
	}

	result := deck.GenerationResult{
		Category:  parsed.Category,
		FileName:  filepath.Base(args[0]),
		Questions: parsed.Questions,
	}
	out, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	result, err := loadResult(args[0])
	if err != nil {
		return err
	}
	fmt.Print(deck.RenderTSV(result.Questions))
	return nil
}

func runBundle(cmd *cobra.Command, args []string) error {
	dir := args[0]
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read results directory: %w", err)
	}

	var names []string
	for _, e := range dirEntries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("no result files in %s", dir)
	}
	sort.Strings(names)

	out, err := os.Create(outputFlag)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, name := range names {
		result, err := loadResult(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("Skipping unreadable result")
			continue
		}
		deckName := deck.DeckName(name)
		if deckName == "" {
			deckName = strings.TrimSuffix(name, ".json")
		}

		header := &zip.FileHeader{Name: deckName + ".txt", Method: zipMethodZstd}
		w, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("add %s to zip: %w", name, err)
		}
		if _, err := io.WriteString(w, deck.RenderTSV(result.Questions)); err != nil {
			return fmt.Errorf("write %s to zip: %w", name, err)
		}
		log.Info().Str("deck", deckName).Int("questions", len(result.Questions)).Msg("Deck bundled")
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize zip: %w", err)
	}
	log.Info().Str("output", outputFlag).Msg("Bundle written")
	return nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := transcription.MediaFormat(path); err != nil {
		return err
	}

	bucket := bucketFlag
	if bucket == "" {
		bucket = os.Getenv("MEDIA_BUCKET_NAME")
	}
	if bucket == "" {
		return fmt.Errorf("no intake bucket: pass --bucket or set MEDIA_BUCKET_NAME")
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read media file: %w", err)
	}

	ctx := context.Background()
	awsClients := lambdaboot.InitAWS()
	client := s3.NewFromConfig(awsClients.Config)

	ref := pipeline.ObjectRef{Bucket: bucket, Key: filepath.Base(path)}
	correlationID := pipeline.DeriveCorrelationID(transcription.JobName(ref.Key))

	contentType := "application/octet-stream"
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &ref.Bucket,
		Key:         &ref.Key,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
		Metadata:    map[string]string{pipeline.CorrelationMetadataKey: correlationID},
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", ref, err)
	}
	log.Info().Str("bucket", bucket).Str("key", ref.Key).Str("correlationId", correlationID).Msg("Media uploaded")
	return nil
}

func loadResult(path string) (deck.GenerationResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return deck.GenerationResult{}, fmt.Errorf("read result: %w", err)
	}
	var result deck.GenerationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return deck.GenerationResult{}, fmt.Errorf("decode result %s: %w", path, err)
	}
	if len(result.Questions) == 0 {
		return deck.GenerationResult{}, fmt.Errorf("result %s contains no questions", path)
	}
	return result, nil
}
