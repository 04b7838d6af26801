package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/yourusername/tg-channel-parser/internal/domain/entity"
)

const (
	menuText = "🎯 <b>Парсер Telegram каналов</b>\n\nВыберите действие в меню ниже:"

	helpText = "📋 <b>Справка по использованию</b>\n\nВыберите раздел справки:"

	requestFormatsText = "📝 <b>Форматы запросов</b>\n\nВыберите формат для подробной информации:"

	quickStartText = `📖 <b>Быстрый старт</b>

1️⃣ <b>Быстрый формат:</b>
Отправьте сообщение вида:
<code>python разработка @python @django</code>

2️⃣ <b>Пошаговый режим:</b>
• Отправьте ключевые слова
• Я спрошу каналы для поиска

3️⃣ <b>Результат:</b>
Запрос сохранится, а кнопка «🔎 Найти» покажет совпадения`

	quickFormatText = `⚡ <b>Быстрый формат</b>

<b>Пример:</b>
<code>python разработка @python @django</code>

<b>Как это работает:</b>
• Все в одном сообщении
• Сначала ключевые слова
• Затем @каналы через пробел

<b>Дополнительные примеры:</b>
• <code>новости технологий @technews</code>
• <code>машинное обучение AI @ml @datascience</code>`

	stepFormatText = `📝 <b>Пошаговый формат</b>

<b>Как это работает:</b>
1️⃣ Отправьте ключевые слова
2️⃣ Я спрошу каналы
3️⃣ Отправьте список каналов

<b>Пример:</b>
<b>Вы:</b> python разработка
<b>Бот:</b> Теперь укажите каналы...
<b>Вы:</b> @python @django`

	faqText = `❓ <b>Часто задаваемые вопросы</b>

<b>❓ Как посмотреть мои запросы?</b>
• Кнопка «📝 Мои запросы» или команда /list

<b>❓ Как повторить поиск?</b>
• Кнопка «🔎 Выполнить поиск» или команда /search
• Результаты кешируются на час, кнопка обновляет их принудительно

<b>❓ Какие каналы поддерживаются?</b>
• Только публичные каналы
• Форматы: <code>@username</code>, <code>t.me/канал</code>

<b>❓ Максимальное количество?</b>
• 10 ключевых слов
• 5 каналов за раз`

	newRequestText = `🔍 <b>Создание нового запроса</b>

Выберите способ создания запроса:

1️⃣ <b>Быстрый формат:</b>
Отправьте сообщение вида:
<code>python разработка @python @django</code>

2️⃣ <b>Пошаговый режим:</b>
Просто отправьте ключевые слова,
и я спрошу каналы.`

	unrecognizedText = `❌ <b>Некорректный запрос</b>

Не удалось распознать ни ключевые слова, ни каналы.

Используй формат:
<code>ключевые слова @канал1 @канал2</code>

Примеры:
• <code>python разработка @python</code>
• <code>машинное обучение @ml @datascience</code>`

	badChannelsText = `❌ <b>Не удалось распознать каналы</b>

Пожалуйста, укажите каналы в правильном формате:
<code>@channel1 @channel2 https://t.me/channel3</code>

Поддерживаемые форматы:
• <code>@username</code>
• <code>https://t.me/channel</code>
• <code>t.me/channel</code>
• <code>username</code> (будет преобразовано в @username)`

	badKeywordsText = `❌ <b>Не удалось распознать ключевые слова</b>

Пожалуйста, укажите слова для поиска.
Каждое слово должно содержать минимум 2 символа.

Примеры:
• <code>python django flask</code>
• <code>разработка, программирование, код</code>`

	channelFormatsHint = `<code>@channel1 @channel2 https://t.me/channel3</code>

Поддерживаемые форматы:
• <code>@username</code>
• <code>https://t.me/channel</code>
• <code>t.me/channel</code>`

	noRequestsText = "❌ <b>Нет сохраненных запросов</b>\n\nСначала создайте запрос через кнопку \"🔍 Новый запрос\"."

	requestNotFoundText = "❌ Запрос не найден."

	searchUnavailableText = "⚠️ <b>Поиск недоступен</b>\n\nАккаунт для чтения каналов не авторизован. Администратору нужно выполнить команду <code>auth</code>."

	summaryDisabledText = "ℹ️ Краткий пересказ отключен: не задан GEMINI_API_KEY."

	unknownCommandText = "Неизвестная команда. /help для справки."
)

// maxMessageLen Telegram rejects longer texts
const maxMessageLen = 4000

func joinEscaped(items []string) string {
	escaped := make([]string, len(items))
	for i, item := range items {
		escaped[i] = html.EscapeString(item)
	}
	return strings.Join(escaped, ", ")
}

func askChannelsText(keywords []string) string {
	return fmt.Sprintf("📝 Ключевые слова: %s\n\nТеперь укажи каналы для поиска:\n%s", joinEscaped(keywords), channelFormatsHint)
}

func askKeywordsText(channels []string) string {
	return fmt.Sprintf("📺 Каналы: %s\n\nТеперь укажи ключевые слова для поиска:\n<code>python django flask</code>", joinEscaped(channels))
}

func tooManyKeywordsText(keywords []string) string {
	return fmt.Sprintf("❌ <b>Не указаны каналы</b>\n\n🔍 Ключевые слова: %s\n\nУкажите каналы для поиска:\n<code>@channel1 @channel2 https://t.me/channel3</code>\n\nИли отправьте ключевые слова отдельно, и я спрошу каналы.", joinEscaped(keywords))
}

func savedText(req entity.SearchRequest) string {
	return fmt.Sprintf("✅ <b>Запрос сохранен!</b>\n\n🔍 Ключевые слова (%d): %s\n📺 Каналы (%d): %s",
		len(req.Keywords), joinEscaped(req.Keywords), len(req.Channels), joinEscaped(req.Channels))
}

func searchingText(req entity.SearchRequest) string {
	return fmt.Sprintf("🔄 <b>Ищу...</b>\n\n📝 Ключевые слова: %s\n📺 Каналы: %s\n\n⏳ Поиск в реальном времени...",
		joinEscaped(req.Keywords), joinEscaped(req.Channels))
}

func searchFailedText(err error) string {
	return fmt.Sprintf("❌ <b>Ошибка при выполнении поиска:</b>\n\n%s\n\nВозможные причины:\n• Проблемы с подключением к Telegram\n• Недоступность каналов\n• Превышен лимит запросов",
		html.EscapeString(err.Error()))
}

func requestListText(requests []entity.SearchRequest, limit int) string {
	if len(requests) == 0 {
		return "📭 <b>У вас пока нет сохраненных запросов.</b>\n\nСоздайте новый запрос или используйте команду /help для справки."
	}

	var b strings.Builder
	b.WriteString("📋 <b>Ваши запросы:</b>\n\n")
	for i, req := range requests {
		if i == limit {
			fmt.Fprintf(&b, "... и ещё %d запросов", len(requests)-limit)
			break
		}
		created := req.CreatedAt
		if t := req.CreatedTime(); !t.IsZero() {
			created = t.Format("02.01.2006 15:04")
		}
		fmt.Fprintf(&b, "%d. <b>%s</b>\n🔍 %s\n📺 %s\n\n", i+1, html.EscapeString(created), joinEscaped(req.Keywords), joinEscaped(req.Channels))
	}
	return b.String()
}

func statsText(stats entity.RequestStats) string {
	last := "Нет запросов"
	if !stats.LastRequest.IsZero() {
		last = stats.LastRequest.Format("02.01.2006 15:04")
	}

	var b strings.Builder
	b.WriteString("📊 <b>Ваша статистика</b>\n\n")
	fmt.Fprintf(&b, "📝 Всего запросов: <b>%d</b>\n", stats.TotalRequests)
	fmt.Fprintf(&b, "🔍 Ключевых слов: <b>%d</b>\n", stats.TotalKeywords)
	fmt.Fprintf(&b, "📺 Каналов всего: <b>%d</b>\n", stats.TotalChannels)
	fmt.Fprintf(&b, "🌟 Уникальных каналов: <b>%d</b>\n", stats.UniqueChannels)
	fmt.Fprintf(&b, "🕒 Последний запрос: <b>%s</b>\n\n", last)
	if stats.TotalRequests > 0 {
		fmt.Fprintf(&b, "📈 Среднее слов на запрос: <b>%.1f</b>\n", stats.AvgKeywords())
		fmt.Fprintf(&b, "📈 Среднее каналов на запрос: <b>%.1f</b>\n", stats.AvgChannels())
	} else {
		b.WriteString("💡 <i>Создайте первый запрос!</i>")
	}
	return b.String()
}

func summaryText(keywords []string, summary string) string {
	return fmt.Sprintf("🧠 <b>Кратко по запросу</b> (%s)\n\n%s", joinEscaped(keywords), html.EscapeString(summary))
}

// fitMessage cuts text at the last line break under the limit. Markup never
// spans lines, so tags stay balanced.
func fitMessage(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLen {
		return text
	}
	cut := string(runes[:maxMessageLen])
	if i := strings.LastIndex(cut, "\n"); i > 0 {
		cut = cut[:i]
	}
	return cut + "\n\n…"
}
