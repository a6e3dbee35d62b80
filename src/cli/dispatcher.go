package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"outliner/src/editor"
	"outliner/src/logging"
	"outliner/src/outline"
	"outliner/src/search"
	"outliner/src/spellcheck"
	"outliner/src/statistics"
	"outliner/src/workspace"
)

// similarDistance is the edit distance allowed when search falls back to
// similar words.
const similarDistance = 2

var directions = map[string]editor.Direction{
	"parent": editor.Parent,
	"child":  editor.FirstChild,
	"next":   editor.NextSibling,
	"prev":   editor.PrevSibling,
}

// Dispatcher interprets REPL commands against a session.
type Dispatcher struct {
	session *workspace.Session
	console *Console
	tracing *logging.Manager
	speller *spellcheck.Service

	results    []search.Result
	resultsDoc string
}

// NewDispatcher constructs a dispatcher.
func NewDispatcher(session *workspace.Session, console *Console, tracing *logging.Manager, speller *spellcheck.Service) *Dispatcher {
	return &Dispatcher{
		session: session,
		console: console,
		tracing: tracing,
		speller: speller,
	}
}

// Run processes interactive commands until exit or end of input.
func (d *Dispatcher) Run() error {
	for {
		line, err := d.console.Prompt("> ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return d.handleExit()
			}
			d.console.Printf("读取命令失败: %v", err)
			continue
		}
		exit, err := d.execute(line)
		if err != nil {
			d.console.Printf("错误: %v", err)
			continue
		}
		if exit {
			return nil
		}
	}
}

// Execute runs a single command.
func (d *Dispatcher) Execute(raw string) error {
	_, err := d.execute(raw)
	return err
}

func (d *Dispatcher) execute(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	tokens, err := tokenize(raw)
	if err != nil {
		return false, err
	}
	if len(tokens) == 0 {
		return false, nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]
	text := strings.Join(args, " ")
	exit := false

	switch cmd {
	case "help":
		d.console.Println(usage)
	case "new":
		ed := d.session.New(text)
		d.console.Printf("已新建文档: %s [%s]", ed.Title(), ed.ID())
	case "tabs":
		d.printTabs()
	case "switch":
		if len(args) != 1 {
			return false, errors.New("用法: switch <序号|文档ID>")
		}
		if err := d.session.Switch(args[0]); err != nil {
			return false, err
		}
		d.printActive()
	case "next-tab":
		d.session.Next()
		d.printActive()
	case "prev-tab":
		d.session.Prev()
		d.printActive()
	case "close":
		closed, err := d.close(text)
		if err != nil {
			return false, err
		}
		if !closed {
			return false, nil
		}
		d.console.Println("已关闭")
	case "tree":
		ed, err := d.session.Active()
		if err != nil {
			return false, err
		}
		d.console.Println(outline.Render(ed.State()))
	case "add-child", "add-sibling":
		var id string
		_, err := d.session.Update(func(ed *editor.Editor) (bool, error) {
			var err error
			if cmd == "add-child" {
				id, err = ed.AddChild(text)
			} else {
				id, err = ed.AddSibling(text)
			}
			return id != "", err
		})
		if err != nil {
			return false, err
		}
		if id == "" {
			d.console.Println("无法添加节点")
			return false, nil
		}
		d.console.Println("已添加节点: " + id)
	case "edit":
		if len(args) == 0 {
			return false, errors.New("用法: edit <文本>")
		}
		if _, err := d.session.Update(func(ed *editor.Editor) (bool, error) {
			return ed.SetText(text)
		}); err != nil {
			return false, err
		}
		d.console.Println("已修改")
	case "color":
		if len(args) != 1 {
			return false, errors.New("用法: color <blue|green|yellow|pink|gray|none>")
		}
		if _, err := d.session.Update(func(ed *editor.Editor) (bool, error) {
			return ed.SetColor(strings.ToLower(args[0]))
		}); err != nil {
			return false, err
		}
		d.console.Println("已设置颜色")
	case "delete":
		deleted, err := d.session.Update(func(ed *editor.Editor) (bool, error) {
			return ed.Delete()
		})
		if err != nil {
			return false, err
		}
		if !deleted {
			d.console.Println("无法删除")
			return false, nil
		}
		d.console.Println("已删除")
	case "go":
		dir, ok := directions[strings.ToLower(text)]
		if !ok {
			return false, errors.New("用法: go <parent|child|prev|next>")
		}
		moved, _ := d.session.Update(func(ed *editor.Editor) (bool, error) {
			return ed.MoveCursor(dir), nil
		})
		if !moved {
			d.console.Println("无法移动")
		}
		d.printCursor()
	case "select":
		if len(args) != 1 {
			return false, errors.New("用法: select <节点ID>")
		}
		if err := d.selectNode(args[0]); err != nil {
			return false, err
		}
		d.printCursor()
	case "move-up", "move-down", "indent", "outdent":
		changed, err := d.session.Update(func(ed *editor.Editor) (bool, error) {
			switch cmd {
			case "move-up":
				return ed.MoveUp(), nil
			case "move-down":
				return ed.MoveDown(), nil
			case "indent":
				return ed.Indent(), nil
			default:
				return ed.Outdent(), nil
			}
		})
		if err != nil {
			return false, err
		}
		if !changed {
			d.console.Println("无法移动")
			return false, nil
		}
		d.console.Println("已移动")
	case "undo":
		if _, err := d.session.Update(func(ed *editor.Editor) (bool, error) {
			err := ed.Undo()
			return err == nil, err
		}); err != nil {
			return false, err
		}
		d.console.Println("已撤销")
	case "redo":
		if _, err := d.session.Update(func(ed *editor.Editor) (bool, error) {
			err := ed.Redo()
			return err == nil, err
		}); err != nil {
			return false, err
		}
		d.console.Println("已重做")
	case "search":
		if len(args) == 0 {
			return false, errors.New("用法: search <关键字>")
		}
		if err := d.search(text); err != nil {
			return false, err
		}
	case "jump":
		if len(args) != 1 {
			return false, errors.New("用法: jump <序号>")
		}
		if err := d.jump(args[0]); err != nil {
			return false, err
		}
		d.printCursor()
	case "spell":
		ed, err := d.session.Active()
		if err != nil {
			return false, err
		}
		d.console.Println(formatIssues(d.speller.CheckState(ed.State())))
	case "stats":
		d.printStats()
	case "log":
		if err := d.toggleLog(text); err != nil {
			return false, err
		}
	case "save":
		if err := d.session.Save(); err != nil {
			return false, err
		}
		d.console.Println("已保存工作区")
	case "exit":
		if err := d.handleExit(); err != nil {
			return false, err
		}
		exit = true
	default:
		return false, fmt.Errorf("未知命令: %s", cmd)
	}

	d.session.PublishCommand(cmd, raw)
	return exit, nil
}

func (d *Dispatcher) close(ref string) (bool, error) {
	target := d.session.ActiveID()
	if ref != "" {
		target = ""
		for _, info := range d.session.Tabs() {
			if ref == info.DocID || ref == strconv.Itoa(info.Index) {
				target = info.DocID
			}
		}
	}
	if ed, ok := d.session.Editor(target); ok && len(d.session.Tabs()) > 1 {
		ok, err := d.console.Confirm(fmt.Sprintf("关闭后文档 \"%s\" 将被删除，是否继续?", ed.Title()))
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	if err := d.session.Close(ref); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Dispatcher) selectNode(id string) error {
	_, err := d.session.Update(func(ed *editor.Editor) (bool, error) {
		before := ed.State().CursorID
		if err := ed.Select(id); err != nil {
			return false, err
		}
		return before != id, nil
	})
	return err
}

func (d *Dispatcher) search(query string) error {
	ed, err := d.session.Active()
	if err != nil {
		return err
	}
	state := ed.State()
	results := search.Find(state, query)
	if len(results) == 0 {
		results = search.FindSimilar(state, query, similarDistance)
		if len(results) > 0 {
			d.console.Println("未找到完全匹配，相似结果:")
		}
	}
	d.results = results
	d.resultsDoc = ed.ID()
	if len(results) == 0 {
		d.console.Println("未找到匹配节点")
		return nil
	}
	for i, r := range results {
		d.console.Printf("%d. %s  (%s)", i+1, r.Title, r.Subtitle)
	}
	return nil
}

func (d *Dispatcher) jump(arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("序号无效: %s", arg)
	}
	if d.resultsDoc != d.session.ActiveID() || len(d.results) == 0 {
		return errors.New("没有可跳转的搜索结果")
	}
	if n < 1 || n > len(d.results) {
		return fmt.Errorf("序号越界: %d", n)
	}
	return d.selectNode(d.results[n-1].NodeID)
}

func (d *Dispatcher) toggleLog(arg string) error {
	docID := d.session.ActiveID()
	switch strings.ToLower(arg) {
	case "on":
		d.tracing.Enable(docID)
		d.console.Println("已开启命令日志")
	case "off":
		d.tracing.Disable(docID)
		d.console.Println("已关闭命令日志")
	case "":
		if d.tracing.Enabled(docID) {
			d.console.Println("命令日志: 开启")
		} else {
			d.console.Println("命令日志: 关闭")
		}
	default:
		return errors.New("用法: log [on|off]")
	}
	return nil
}

func (d *Dispatcher) printTabs() {
	for _, info := range d.session.Tabs() {
		prefix := " "
		if info.Active {
			prefix = "*"
		}
		suffix := ""
		if info.Modified {
			suffix = " [modified]"
		}
		d.console.Printf("%s %d %s (%s)%s", prefix, info.Index, info.Title, info.DocID, suffix)
	}
}

func (d *Dispatcher) printStats() {
	for _, info := range d.session.Tabs() {
		d.console.Printf("%s: %s", info.Title, statistics.FormatDuration(info.Duration))
	}
}

func (d *Dispatcher) printActive() {
	ed, err := d.session.Active()
	if err != nil {
		return
	}
	d.console.Println("当前文档: " + ed.Title())
}

func (d *Dispatcher) printCursor() {
	ed, err := d.session.Active()
	if err != nil {
		return
	}
	node, ok := ed.Cursor()
	if !ok {
		return
	}
	text := strings.TrimSpace(node.Text)
	if text == "" {
		text = "(empty)"
	}
	d.console.Printf("光标: %s [%s]", text, node.ID)
}

func (d *Dispatcher) handleExit() error {
	if err := d.session.Shutdown(); err != nil {
		return err
	}
	d.console.Println("已退出并保存工作区")
	return nil
}

func formatIssues(issues []spellcheck.Issue) string {
	var builder strings.Builder
	builder.WriteString("拼写检查结果:\n")
	if len(issues) == 0 {
		builder.WriteString("未发现拼写错误")
		return builder.String()
	}
	for i, issue := range issues {
		suggestions := "无"
		if len(issue.Suggestions) > 0 {
			suggestions = strings.Join(issue.Suggestions, ", ")
		}
		builder.WriteString(fmt.Sprintf("节点 %s，第%d列: \"%s\" -> 建议: %s", issue.NodeID, issue.Column, issue.Word, suggestions))
		if i != len(issues)-1 {
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

func tokenize(line string) ([]string, error) {
	var tokens []string
	var builder strings.Builder
	inQuotes := false
	tokenReady := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch ch {
		case '"':
			if inQuotes {
				inQuotes = false
				if builder.Len() == 0 {
					tokenReady = true
				}
			} else {
				inQuotes = true
			}
		case ' ', '\t':
			if inQuotes {
				builder.WriteByte(ch)
			} else if builder.Len() > 0 || tokenReady {
				tokens = append(tokens, builder.String())
				builder.Reset()
				tokenReady = false
			}
		default:
			builder.WriteByte(ch)
			tokenReady = false
		}
	}
	if inQuotes {
		return nil, errors.New("缺少匹配的引号")
	}
	if builder.Len() > 0 || tokenReady {
		tokens = append(tokens, builder.String())
	}
	return tokens, nil
}

const usage = `命令:
  new [标题]              新建文档
  tabs                    列出标签页
  switch <序号|文档ID>    切换文档
  next-tab | prev-tab     循环切换文档
  close [序号|文档ID]     关闭并删除文档
  tree                    显示大纲
  add-child [文本]        添加子节点
  add-sibling [文本]      添加兄弟节点
  edit <文本>             修改当前节点
  color <颜色|none>       设置节点颜色
  delete                  删除当前节点
  go <parent|child|prev|next>
  select <节点ID>
  move-up | move-down | indent | outdent
  undo | redo
  search <关键字>         搜索节点
  jump <序号>             跳转到搜索结果
  spell                   拼写检查
  stats                   文档停留时长
  log [on|off]            当前文档命令日志
  save                    保存工作区
  exit                    保存并退出`
