package telegram

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"math-tutor/api/internal/ai/types"
	"math-tutor/api/internal/util"
)

const startText = `Send me a math problem as text or a photo and I will solve
and explain it step by step. After a solution, just keep typing to ask
follow-up questions.

Commands:
/new - start a new problem
/lang - switch between English and Arabic
/examples - problems to try
/health - check the backend`

func (r *Router) onCommand(ctx context.Context, cid int64, cmd string) {
	switch cmd {
	case "start", "help":
		r.send(cid, startText)
	case "new":
		r.States.ResetConversation(cid)
		r.send(cid, "Fresh start. Send the next problem.")
	case "lang":
		lang := r.States.ToggleLang(cid)
		if lang == types.LangAR {
			r.send(cid, "تم التبديل إلى العربية.")
		} else {
			r.send(cid, "Switched to English.")
		}
	case "examples":
		r.onExamples(ctx, cid)
	case "health":
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		out := r.API.GenerateInitialData(ctx, r.States.Lang(cid))
		if out.Fallback {
			r.send(cid, "⚠️ Backend unreachable, running on offline content.")
		} else {
			r.send(cid, "✅ OK")
		}
	default:
		r.send(cid, "Unknown command, see /help")
	}
}

// onExamples shows the seed content: example problems plus the fact.
func (r *Router) onExamples(ctx context.Context, cid int64) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	out := r.API.GenerateInitialData(ctx, r.States.Lang(cid))
	var b strings.Builder
	for i, ex := range out.Examples {
		fmt.Fprintf(&b, "%d. %s (%s, %s)\n", i+1, ex.Problem, ex.Topic, ex.Difficulty)
	}
	if out.Fact != "" {
		b.WriteString("\n💡 " + out.Fact)
	}
	r.send(cid, b.String())
}

// onText either continues the running conversation or solves a new text
// problem.
func (r *Router) onText(ctx context.Context, cid int64, text string) {
	if r.States.HasConversation(cid) {
		r.onFollowUp(ctx, cid, text)
		return
	}
	r.solve(ctx, cid, types.SolveRequest{
		Problem:  text,
		Language: r.States.Lang(cid),
	})
}

// onPhoto downloads the largest photo size and solves from the image.
func (r *Router) onPhoto(ctx context.Context, cid int64, msg *tgbotapi.Message) {
	r.send(cid, "Got the photo, working on it…")

	ph := msg.Photo[len(msg.Photo)-1]
	tf, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: ph.FileID})
	if err != nil {
		r.send(cid, "Could not fetch the file: "+err.Error())
		return
	}
	img, err := download(ctx, tf.Link(r.Bot.Token))
	if err != nil {
		r.send(cid, "Could not download the photo: "+err.Error())
		return
	}

	r.solve(ctx, cid, types.SolveRequest{
		Image:    base64.StdEncoding.EncodeToString(img),
		MIMEType: util.SniffMimeHTTP(img),
		Language: r.States.Lang(cid),
	})
}

func (r *Router) solve(ctx context.Context, cid int64, req types.SolveRequest) {
	ctx, cancel := context.WithTimeout(ctx, 180*time.Second)
	defer cancel()

	out, err := r.API.SolveProblem(ctx, req)
	if err != nil {
		r.send(cid, "Could not solve that one: "+err.Error())
		return
	}

	reply := renderSolution(out)
	r.send(cid, reply)

	// Seed the follow-up conversation with the exchange just shown
	problem := req.Problem
	if problem == "" {
		problem = out.RestatedProblem
	}
	r.States.ResetConversation(cid)
	r.States.AppendTurns(cid,
		types.ChatTurn{Role: types.RoleUser, Text: problem},
		types.ChatTurn{Role: types.RoleModel, Text: reply},
	)
}

// onFollowUp relays a chat turn, accumulating streamed deltas into one
// reply message.
func (r *Router) onFollowUp(ctx context.Context, cid int64, text string) {
	ctx, cancel := context.WithTimeout(ctx, 300*time.Second)
	defer cancel()

	req := types.ChatRequest{
		History:  r.States.History(cid),
		Message:  text,
		Language: r.States.Lang(cid),
	}
	stream, err := r.API.Chat(ctx, req)
	if err != nil {
		r.send(cid, "Chat failed: "+err.Error())
		return
	}
	defer stream.Close()

	reply, err := stream.ReadAll()
	if err != nil && reply == "" {
		r.send(cid, "Chat failed: "+err.Error())
		return
	}
	if strings.TrimSpace(reply) == "" {
		reply = "(empty reply)"
	}
	reply = util.ClampRunes(reply, 3900)
	r.send(cid, reply)

	r.States.AppendTurns(cid,
		types.ChatTurn{Role: types.RoleUser, Text: text},
		types.ChatTurn{Role: types.RoleModel, Text: reply},
	)
}

func renderSolution(out types.SolveResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📘 %s\n%s\n\n", out.ProblemType, out.RestatedProblem)
	for i, st := range out.Steps {
		fmt.Fprintf(&b, "%d. %s\n%s\n", i+1, st.Title, st.Explanation)
		if st.Expression != nil && *st.Expression != "" {
			b.WriteString("   " + *st.Expression + "\n")
		}
	}
	fmt.Fprintf(&b, "\n✅ %s", out.FinalAnswer)
	if out.Summary != "" {
		b.WriteString("\n\n" + out.Summary)
	}
	return util.ClampRunes(b.String(), 3900)
}

func download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}
