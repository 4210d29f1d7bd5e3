// Package transcription shapes and submits Amazon Transcribe jobs for
// uploaded media assets.
package transcription

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awstranscribe "github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"
	"github.com/rs/zerolog/log"

	"github.com/mpark/ankimozzi/internal/pipeline"
)

// ErrUnsupportedFormat is returned for media kinds Transcribe cannot take.
var ErrUnsupportedFormat = errors.New("unsupported media format")

// supportedFormats maps the accepted file extensions to Transcribe media
// formats. Anything else is rejected before a job is submitted.
var supportedFormats = map[string]types.MediaFormat{
	"mp4":  types.MediaFormatMp4,
	"wav":  types.MediaFormatWav,
	"mp3":  types.MediaFormatMp3,
	"flac": types.MediaFormatFlac,
	"ogg":  types.MediaFormatOgg,
}

// contentTypes maps the accepted extensions to upload MIME types.
var contentTypes = map[string]string{
	"mp4":  "video/mp4",
	"wav":  "audio/wav",
	"mp3":  "audio/mpeg",
	"flac": "audio/flac",
	"ogg":  "audio/ogg",
}

// nonWord matches every character that may not appear in a Transcribe job
// name. Replaced with "_" during sanitization.
var nonWord = regexp.MustCompile(`[^\w.-]`)

// jobNameMaxBase caps the sanitized base name used in a job name.
const jobNameMaxBase = 50

// MediaFormat resolves the Transcribe media format from a key's extension.
func MediaFormat(key string) (types.MediaFormat, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(key), "."))
	format, ok := supportedFormats[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return format, nil
}

// ContentType resolves the upload content type for a supported media key.
func ContentType(key string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(key), "."))
	ct, ok := contentTypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return ct, nil
}

// JobName derives the transcription job name from the media key: the base
// file name with non-word/dot/dash characters replaced by "_", truncated to
// 50 characters, prefixed "transcribe-". The prefix survives into every
// downstream artifact key, which is how a deck name finds its result.
func JobName(key string) string {
	base := nonWord.ReplaceAllString(path.Base(key), "_")
	if len(base) > jobNameMaxBase {
		base = base[:jobNameMaxBase]
	}
	return "transcribe-" + base
}

// Submitter starts transcription jobs whose output lands in the transcripts
// bucket, where the next stage's trigger picks it up.
type Submitter struct {
	client       *awstranscribe.Client
	outputBucket string
	languageCode types.LanguageCode
}

// NewSubmitter creates a Submitter writing job output to outputBucket.
func NewSubmitter(client *awstranscribe.Client, outputBucket string) *Submitter {
	return &Submitter{
		client:       client,
		outputBucket: outputBucket,
		languageCode: types.LanguageCodeEnUs,
	}
}

// Submit starts a transcription job for the media object. Returns the job
// name. Submitting the same job name twice (duplicate trigger delivery)
// fails with a ConflictException from Transcribe; the caller surfaces that
// as a collaborator failure and the original job keeps running.
func (s *Submitter) Submit(ctx context.Context, media pipeline.ObjectRef) (string, error) {
	format, err := MediaFormat(media.Key)
	if err != nil {
		return "", err
	}

	jobName := JobName(media.Key)
	mediaURI := media.String()

	log.Info().
		Str("jobName", jobName).
		Str("mediaUri", mediaURI).
		Str("mediaFormat", string(format)).
		Str("outputBucket", s.outputBucket).
		Msg("Starting transcription job")

	_, err = s.client.StartTranscriptionJob(ctx, &awstranscribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(jobName),
		Media:                &types.Media{MediaFileUri: aws.String(mediaURI)},
		MediaFormat:          format,
		LanguageCode:         s.languageCode,
		OutputBucketName:     aws.String(s.outputBucket),
	})
	if err != nil {
		return "", fmt.Errorf("start transcription job %s: %w", jobName, err)
	}
	return jobName, nil
}
