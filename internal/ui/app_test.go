package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/taskdeck/internal/prefs"
	"github.com/five82/taskdeck/internal/state"
	"github.com/five82/taskdeck/internal/syncengine"
	"github.com/five82/taskdeck/internal/testutil"
	"github.com/five82/taskdeck/internal/todos"
)

func newTestModel(t *testing.T, tasks ...todos.Task) (Model, *testutil.FakeService, string) {
	t.Helper()
	fake := testutil.NewFakeService(tasks...)
	eng := syncengine.New(fake, &state.Store{})
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{
		Context:   context.Background(),
		Engine:    eng,
		APIURL:    "http://localhost:8000",
		PrefsPath: prefsPath,
	})
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	return m, fake, prefsPath
}

// send delivers msg and discards any returned command.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// press delivers a key and runs the resulting command to completion,
// feeding its message back into the model.
func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	return send(t, m, cmd())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func loaded(t *testing.T, tasks ...todos.Task) (Model, *testutil.FakeService, string) {
	t.Helper()
	m, fake, path := newTestModel(t, tasks...)
	m = press(t, m, keyRunes("r"))
	if got := len(m.snapshot.Tasks); got != len(tasks) {
		t.Fatalf("loaded %d tasks, want %d", got, len(tasks))
	}
	return m, fake, path
}

func twoTasks() []todos.Task {
	return []todos.Task{
		{ID: 1, Title: "Buy milk", Description: "Created via Web UI"},
		{ID: 2, Title: "Walk dog", Description: "Created via Web UI", IsCompleted: true},
	}
}

func TestRefreshKeyLoadsTasks(t *testing.T) {
	m, _, _ := loaded(t, twoTasks()...)
	view := m.View()
	if !strings.Contains(view, "Buy milk") || !strings.Contains(view, "Walk dog") {
		t.Fatalf("view missing task titles:\n%s", view)
	}
}

func TestNavigationClampsSelection(t *testing.T) {
	m, _, _ := loaded(t, twoTasks()...)

	m = press(t, m, keyRunes("j"))
	m = press(t, m, keyRunes("j"))
	if m.selected != 1 {
		t.Fatalf("selected after j j = %d, want 1", m.selected)
	}
	m = press(t, m, keyRunes("k"))
	m = press(t, m, keyRunes("k"))
	if m.selected != 0 {
		t.Fatalf("selected after k k = %d, want 0", m.selected)
	}
	m = press(t, m, keyRunes("G"))
	if m.selected != 1 {
		t.Fatalf("selected after G = %d, want 1", m.selected)
	}
}

func TestToggleKeyFlipsSelectedTask(t *testing.T) {
	m, fake, _ := loaded(t, twoTasks()...)

	m = press(t, m, keyRunes("x"))

	task, _ := m.snapshot.Task(1)
	if !task.IsCompleted {
		t.Fatalf("task 1 not completed in snapshot after toggle")
	}
	if got := fake.Tasks()[0]; !got.IsCompleted {
		t.Fatalf("backend task 1 = %#v, want completed", got)
	}
}

func TestToggleFailureRestoresBackendState(t *testing.T) {
	m, fake, _ := loaded(t, twoTasks()...)
	fake.SetErrors(nil, nil, testutil.ErrRejected, nil)

	m = press(t, m, keyRunes("x"))

	task, _ := m.snapshot.Task(1)
	if task.IsCompleted {
		t.Fatalf("task 1 completed after rejected toggle, want rolled back")
	}
}

func TestRapidDoubleToggleRestoresOriginal(t *testing.T) {
	m, fake, _ := loaded(t, twoTasks()...)

	// Both key presses are handled before either remote call runs.
	next, cmd1 := m.Update(keyRunes("x"))
	m = next.(Model)
	if task, _ := m.snapshot.Task(1); !task.IsCompleted {
		t.Fatalf("task 1 not completed in snapshot after first press")
	}
	next, cmd2 := m.Update(keyRunes(" "))
	m = next.(Model)
	if task, _ := m.snapshot.Task(1); task.IsCompleted {
		t.Fatalf("task 1 completed in snapshot after second press, want original")
	}
	m = send(t, m, cmd1())
	m = send(t, m, cmd2())

	if task, _ := m.snapshot.Task(1); task.IsCompleted {
		t.Fatalf("store task 1 completed after two toggles, want original false")
	}
	if fake.Tasks()[0].IsCompleted {
		t.Fatalf("backend task 1 completed after two toggles, want original false")
	}
	var sent []bool
	for _, c := range fake.Calls() {
		if c.Op == "update" {
			sent = append(sent, c.IsCompleted)
		}
	}
	if len(sent) != 2 || !sent[0] || sent[1] {
		t.Fatalf("update calls sent %v, want [true false]", sent)
	}
}

func TestRapidDoubleDeleteRemovesTwoTasks(t *testing.T) {
	m, fake, _ := loaded(t, twoTasks()...)

	next, cmd1 := m.Update(keyRunes("d"))
	m = next.(Model)
	next, cmd2 := m.Update(keyRunes("d"))
	m = next.(Model)
	m = send(t, m, cmd1())
	m = send(t, m, cmd2())

	if n := len(m.snapshot.Tasks); n != 0 {
		t.Fatalf("tasks after two deletes = %d, want 0", n)
	}
	if n := len(fake.Tasks()); n != 0 {
		t.Fatalf("backend tasks after two deletes = %d, want 0", n)
	}
}

func TestToggleNotifiesStoreWatchers(t *testing.T) {
	m, _, _ := loaded(t, twoTasks()...)
	// Drain the notification left by the load.
	waitForChange(context.Background(), m.store)()

	press(t, m, keyRunes("x"))

	if msg := waitForChange(context.Background(), m.store)(); msg != (storeChangedMsg{}) {
		t.Fatalf("waitForChange = %#v, want storeChangedMsg", msg)
	}
}

func TestDeleteKeyRemovesSelectedTask(t *testing.T) {
	m, fake, _ := loaded(t, twoTasks()...)

	m = press(t, m, keyRunes("j"))
	m = press(t, m, keyRunes("d"))

	if got := len(m.snapshot.Tasks); got != 1 {
		t.Fatalf("tasks after delete = %d, want 1", got)
	}
	if _, ok := m.snapshot.Task(2); ok {
		t.Fatalf("task 2 still present after delete")
	}
	if m.selected != 0 {
		t.Fatalf("selected = %d after deleting last row, want 0", m.selected)
	}
	if got := fake.CallCount("delete"); got != 1 {
		t.Fatalf("delete calls = %d, want 1", got)
	}
}

func TestActionKeysOnEmptyListAreNoops(t *testing.T) {
	m, fake, _ := loaded(t)

	m = press(t, m, keyRunes("x"))
	press(t, m, keyRunes("d"))

	if fake.CallCount("update") != 0 || fake.CallCount("delete") != 0 {
		t.Fatalf("calls = %#v, want no update or delete", fake.Calls())
	}
}

func TestAddFormCreatesTask(t *testing.T) {
	m, fake, _ := loaded(t)

	m = send(t, m, keyRunes("a"))
	if !m.adding {
		t.Fatalf("adding = false after a, want true")
	}
	m = typeText(t, m, "Buy milk")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.adding {
		t.Fatalf("form still open after successful add")
	}
	if m.input.Value() != "" {
		t.Fatalf("input = %q after add, want empty", m.input.Value())
	}
	if got := len(m.snapshot.Tasks); got != 1 || m.snapshot.Tasks[0].Title != "Buy milk" {
		t.Fatalf("tasks = %#v, want [Buy milk]", m.snapshot.Tasks)
	}
	calls := fake.Calls()
	last := calls[len(calls)-1]
	if last.Op != "create" || last.Description != syncengine.DefaultDescription || last.IsCompleted {
		t.Fatalf("create call = %#v, want default description and not completed", last)
	}
}

func TestAddFormIgnoresBlankTitle(t *testing.T) {
	m, fake, _ := loaded(t)

	m = send(t, m, keyRunes("a"))
	m = typeText(t, m, "   ")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if !m.adding {
		t.Fatalf("form closed after blank submit, want it to stay open")
	}
	if m.alert != "" {
		t.Fatalf("alert = %q after blank submit, want none", m.alert)
	}
	if got := fake.CallCount("create"); got != 0 {
		t.Fatalf("create calls = %d, want 0", got)
	}
}

func TestAddFailureShowsAlertAndKeepsTitle(t *testing.T) {
	m, fake, _ := loaded(t)
	fake.CreateErr = testutil.ErrRejected

	m = send(t, m, keyRunes("a"))
	m = typeText(t, m, "Buy milk")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.alert != syncengine.AddFailedMessage {
		t.Fatalf("alert = %q, want %q", m.alert, syncengine.AddFailedMessage)
	}
	if !strings.Contains(m.View(), syncengine.AddFailedMessage) {
		t.Fatalf("view missing alert:\n%s", m.View())
	}
	if len(m.snapshot.Tasks) != 0 {
		t.Fatalf("tasks = %#v after failed add, want none", m.snapshot.Tasks)
	}

	// The next key dismisses the alert without reaching the form.
	m = press(t, m, keyRunes("z"))
	if m.alert != "" {
		t.Fatalf("alert = %q after key press, want cleared", m.alert)
	}
	if !m.adding || m.input.Value() != "Buy milk" {
		t.Fatalf("form = (%v, %q), want open with Buy milk", m.adding, m.input.Value())
	}
}

func TestEscCancelsAddForm(t *testing.T) {
	m, fake, _ := loaded(t)

	m = send(t, m, keyRunes("a"))
	m = typeText(t, m, "draft")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.adding || m.input.Value() != "" {
		t.Fatalf("form = (%v, %q) after esc, want closed and empty", m.adding, m.input.Value())
	}
	if got := fake.CallCount("create"); got != 0 {
		t.Fatalf("create calls = %d, want 0", got)
	}
}

func TestStatusBarSyncTimeIgnoresLocalEdits(t *testing.T) {
	m, fake, _ := newTestModel(t, twoTasks()...)
	if !strings.Contains(m.View(), "Not synced yet") {
		t.Fatalf("view before load missing Not synced yet:\n%s", m.View())
	}

	m = press(t, m, keyRunes("r"))
	synced := m.snapshot.LastSynced
	want := "Synced " + synced.Format("15:04:05")

	// The push is never run, so the edit stays unconfirmed.
	next, _ := m.Update(keyRunes("x"))
	m = next.(Model)
	if !m.snapshot.LastSynced.Equal(synced) {
		t.Fatalf("LastSynced moved on an unconfirmed toggle")
	}
	if !strings.Contains(m.View(), want) {
		t.Fatalf("view missing %q:\n%s", want, m.View())
	}
	if n := fake.CallCount("update"); n != 0 {
		t.Fatalf("update calls = %d, want 0", n)
	}
}

func TestStatusBarShowsLoadError(t *testing.T) {
	m, fake, _ := newTestModel(t, twoTasks()...)
	fake.ListErr = testutil.ErrRejected

	m = press(t, m, keyRunes("r"))

	if !strings.Contains(m.View(), syncengine.LoadFailedMessage) {
		t.Fatalf("view missing load error:\n%s", m.View())
	}
}

func TestThemeAndCompactPersist(t *testing.T) {
	m, _, path := loaded(t, twoTasks()...)

	m = press(t, m, keyRunes("T"))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q after T, want Kanagawa", m.theme.Name)
	}
	m = press(t, m, keyRunes("c"))
	if !m.compact {
		t.Fatalf("compact = false after c, want true")
	}

	p := prefs.Load(path)
	if p.Theme != "Kanagawa" || !p.Compact {
		t.Fatalf("saved prefs = %#v, want Kanagawa compact", p)
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _, _ := loaded(t)

	m = press(t, m, keyRunes("?"))
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	if !strings.Contains(m.View(), "> Nightfox") || !strings.Contains(m.View(), "Kanagawa") {
		t.Fatalf("help overlay missing theme list:\n%s", m.View())
	}
	m = press(t, m, keyRunes("j"))
	if m.showHelp {
		t.Fatalf("help still shown after key press")
	}
}

func TestQuitKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{keyRunes("q"), keyRunes("e"), {Type: tea.KeyCtrlC}} {
		m, _, _ := newTestModel(t)
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s returned no command, want quit", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s did not quit", k)
		}
	}
}
