package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"country-insight-go/internal/model"
	"country-insight-go/pkg/llm"
	"country-insight-go/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.Init("error", "console", "")
	os.Exit(m.Run())
}

// fakeFetcher 返回预置的国家记录，记录查询过的名称。
type fakeFetcher struct {
	records map[string]*model.CountryRecord
	queried []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, name string) (*model.CountryRecord, bool) {
	f.queried = append(f.queried, name)
	record, ok := f.records[name]
	return record, ok
}

// fakeLLM 返回固定文本或固定错误，记录收到的提示词。
type fakeLLM struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeLLM) Available() bool { return f.err == nil }

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeLLM) StreamGenerate(ctx context.Context, prompt string, writer llm.MessageWriter) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if writer != nil {
		if err := writer.WriteMessage(1, []byte(f.text)); err != nil {
			return "", err
		}
	}
	return f.text, nil
}

// memRepo 是 ConversationRepository 的内存实现。
type memRepo struct {
	transcripts map[string][]model.ChatMessage
	appendErr   error
}

func newMemRepo() *memRepo {
	return &memRepo{transcripts: make(map[string][]model.ChatMessage)}
}

func (r *memRepo) GetTranscript(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	return r.transcripts[sessionID], nil
}

func (r *memRepo) AppendMessages(ctx context.Context, sessionID string, messages ...model.ChatMessage) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.transcripts[sessionID] = append(r.transcripts[sessionID], messages...)
	return nil
}

func (r *memRepo) DeleteTranscript(ctx context.Context, sessionID string) error {
	delete(r.transcripts, sessionID)
	return nil
}

// capturedWriter 收集流式写出的分块。
type capturedWriter struct {
	chunks []string
}

func (w *capturedWriter) WriteMessage(messageType int, data []byte) error {
	w.chunks = append(w.chunks, string(data))
	return nil
}

func TestRespondTranscriptAlternates(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]*model.CountryRecord{"France": franceRecord()}}
	gen := &fakeLLM{text: "answer"}
	repo := newMemRepo()
	svc := NewChatService(fetcher, gen, repo)

	for i := 0; i < 3; i++ {
		answer, err := svc.Respond(context.Background(), "s1", "question", "France", nil)
		require.NoError(t, err)
		assert.Equal(t, "answer", answer)
	}

	transcript, err := svc.History(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, transcript, 6)
	for i, msg := range transcript {
		if i%2 == 0 {
			assert.Equal(t, model.RoleUser, msg.Role)
		} else {
			assert.Equal(t, model.RoleAssistant, msg.Role)
		}
	}

	// 焦点国家每轮重新抓取
	assert.Equal(t, []string{"France", "France", "France"}, fetcher.queried)
}

func TestRespondGenerationFailureStillAppendsAssistantTurn(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]*model.CountryRecord{"France": franceRecord()}}
	gen := &fakeLLM{err: llm.ErrServiceUnavailable}
	repo := newMemRepo()
	svc := NewChatService(fetcher, gen, repo)

	answer, err := svc.Respond(context.Background(), "s1", "hello", "France", nil)
	assert.ErrorIs(t, err, llm.ErrServiceUnavailable)
	assert.Equal(t, llm.FailureMessage(llm.ErrServiceUnavailable), answer)

	transcript, _ := svc.History(context.Background(), "s1")
	require.Len(t, transcript, 2)
	assert.Equal(t, model.RoleUser, transcript[0].Role)
	assert.Equal(t, "hello", transcript[0].Content)
	assert.Equal(t, model.RoleAssistant, transcript[1].Role)
	assert.Equal(t, answer, transcript[1].Content)
}

func TestRespondMissingFocusCountryContinues(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]*model.CountryRecord{}}
	gen := &fakeLLM{text: "answer"}
	svc := NewChatService(fetcher, gen, newMemRepo())

	answer, err := svc.Respond(context.Background(), "s1", "hello", "Atlantis", nil)
	require.NoError(t, err)
	assert.Equal(t, "answer", answer)

	// 抓取缺失时提示词显式声明没有国家数据
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "No country data was provided.")
}

func TestRespondStreamsThroughWriter(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]*model.CountryRecord{"France": franceRecord()}}
	gen := &fakeLLM{text: "streamed answer"}
	svc := NewChatService(fetcher, gen, newMemRepo())

	writer := &capturedWriter{}
	answer, err := svc.Respond(context.Background(), "s1", "hello", "France", writer)
	require.NoError(t, err)
	assert.Equal(t, "streamed answer", answer)
	assert.Equal(t, []string{"streamed answer"}, writer.chunks)
}

func TestRespondPromptContainsTranscriptAndCountry(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]*model.CountryRecord{"France": franceRecord()}}
	gen := &fakeLLM{text: "answer"}
	svc := NewChatService(fetcher, gen, newMemRepo())

	_, err := svc.Respond(context.Background(), "s1", "What is the capital?", "France", nil)
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "USER: What is the capital?")
	assert.Contains(t, prompt, "- Capital: Paris")
	assert.Contains(t, prompt, "User's latest question:\nWhat is the capital?")
}

func TestEndSessionClearsTranscript(t *testing.T) {
	fetcher := &fakeFetcher{records: map[string]*model.CountryRecord{"France": franceRecord()}}
	svc := NewChatService(fetcher, &fakeLLM{text: "answer"}, newMemRepo())

	_, err := svc.Respond(context.Background(), "s1", "hello", "France", nil)
	require.NoError(t, err)

	require.NoError(t, svc.EndSession(context.Background(), "s1"))

	transcript, err := svc.History(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, transcript)
}

func TestRespondRepoErrorSurfaced(t *testing.T) {
	repo := newMemRepo()
	repo.appendErr = errors.New("redis down")
	svc := NewChatService(&fakeFetcher{}, &fakeLLM{text: "answer"}, repo)

	_, err := svc.Respond(context.Background(), "s1", "hello", "", nil)
	assert.EqualError(t, err, "redis down")
}
