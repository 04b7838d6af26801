package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/tg-channel-parser/internal/usecase"
)

// callback payloads
const (
	cbBackToMenu     = "back_to_menu"
	cbHelp           = "help"
	cbList           = "list"
	cbNewRequest     = "new_request"
	cbExecuteSearch  = "execute_search"
	cbStats          = "stats"
	cbQuickStart     = "quick_start"
	cbRequestFormats = "request_formats"
	cbFormatQuick    = "format_quick"
	cbFormatStep     = "format_step"
	cbFAQ            = "faq"
	cbIgnore         = "ignore"

	// prefixes followed by the request's created_at stamp
	cbPage         = "page_"
	cbShowTable    = "show_table_results_"
	cbShowText     = "show_text_results_"
	cbShowAllTable = "show_all_table_results_"
	cbShowAll      = "show_all_results_"
	cbExport       = "export_"
	cbSummary      = "summary_"
)

type button struct {
	text string
	data string
}

// grid lays buttons out perRow to a row
func grid(buttons []button, perRow int) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, b := range buttons {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.text, b.data))
		if len(row) == perRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

var backButton = button{"🏠 Назад в меню", cbBackToMenu}

func mainMenuKeyboard() *tgbotapi.InlineKeyboardMarkup {
	return grid([]button{
		{"📋 Справка", cbHelp},
		{"📝 Мои запросы", cbList},
		{"🔍 Новый запрос", cbNewRequest},
		{"🔎 Выполнить поиск", cbExecuteSearch},
		{"📊 Статистика", cbStats},
	}, 2)
}

func backKeyboard() *tgbotapi.InlineKeyboardMarkup {
	return grid([]button{backButton}, 1)
}

func helpKeyboard() *tgbotapi.InlineKeyboardMarkup {
	return grid([]button{
		{"📖 Быстрый старт", cbQuickStart},
		{"📝 Форматы запросов", cbRequestFormats},
		{"❓ FAQ", cbFAQ},
		backButton,
	}, 1)
}

func requestFormatsKeyboard() *tgbotapi.InlineKeyboardMarkup {
	return grid([]button{
		{"⚡ Быстрый формат", cbFormatQuick},
		{"📝 Пошаговый формат", cbFormatStep},
		backButton,
	}, 1)
}

func savedRequestKeyboard(createdAt string) *tgbotapi.InlineKeyboardMarkup {
	return grid([]button{
		{"🔎 Найти", cbPage + "1_" + createdAt},
		{"🏠 Главное меню", cbBackToMenu},
	}, 2)
}

// resultsView what a results message currently shows
type resultsView struct {
	createdAt string
	total     int
	page      int
	perPage   int
	table     bool
	summary   bool
}

func resultsKeyboard(v resultsView) *tgbotapi.InlineKeyboardMarkup {
	var buttons []button

	if pages := usecase.PageCount(v.total, v.perPage); pages > 1 {
		if v.page > 1 {
			buttons = append(buttons, button{"⬅️ Назад", fmt.Sprintf("%s%d_%s", cbPage, v.page-1, v.createdAt)})
		}
		buttons = append(buttons, button{fmt.Sprintf("📄 %d/%d", v.page, pages), cbIgnore})
		if v.page < pages {
			buttons = append(buttons, button{"➡️ Далее", fmt.Sprintf("%s%d_%s", cbPage, v.page+1, v.createdAt)})
		}
	}

	if v.table {
		buttons = append(buttons,
			button{"📝 Текст", cbShowText + v.createdAt},
			button{"📚 Все результаты", cbShowAllTable + v.createdAt},
		)
	} else {
		buttons = append(buttons,
			button{"📊 Таблица", cbShowTable + v.createdAt},
			button{"📚 Все результаты", cbShowAll + v.createdAt},
		)
	}

	if v.total > 0 {
		buttons = append(buttons, button{"📥 Excel", cbExport + v.createdAt})
		if v.summary {
			buttons = append(buttons, button{"🧠 Кратко", cbSummary + v.createdAt})
		}
	}

	buttons = append(buttons,
		button{"🔍 Новый поиск", cbNewRequest},
		button{"🏠 Главное меню", cbBackToMenu},
	)
	return grid(buttons, 2)
}
