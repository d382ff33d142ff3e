package contract

// defaultTemplate is the distribution license contract shipped with the
// binary. A deployment may override it with a file watched by WatchTemplateDir.
// The dark-theme hsl() declarations match the portal styling; PrintableHTML
// rewrites them before PDF rendering.
const defaultTemplate = `<!DOCTYPE html>
<html lang="ru">
<head>
<meta charset="UTF-8">
<style>
  body {
    font-family: 'Times New Roman', serif;
    font-size: 10pt;
    line-height: 1.35;
    margin: 0;
    padding: 24px;
    color: hsl(45, 95%, 90%);
    background: hsl(0, 0%, 5%);
  }
  h1 {
    text-align: center;
    font-size: 14pt;
    text-transform: uppercase;
    letter-spacing: 0.5px;
    color: hsl(45, 100%, 60%);
    border-bottom: 3px double hsl(45, 100%, 60%);
    padding-bottom: 10px;
  }
  h2 {
    font-size: 11pt;
    padding: 8px 12px;
    color: hsl(45, 100%, 70%);
    background: linear-gradient(to right, hsl(45, 30%, 20%) 0%, transparent 100%);
    border-left: 4px solid hsl(45, 100%, 60%);
  }
  p { text-align: justify; margin: 6px 0; }
  i { color: hsl(45, 30%, 50%); }
  table {
    width: 100%;
    border-collapse: collapse;
    font-size: 9pt;
  }
  table td, table th {
    border: 1px solid hsl(45, 30%, 20%);
    padding: 6px;
    text-align: left;
  }
  table th { background: hsl(45, 30%, 15%); }
  .signatures {
    display: flex;
    justify-content: space-between;
    gap: 20px;
    margin-top: 30px;
    padding: 20px;
    background: hsl(0, 0%, 8%);
    border: 1px solid hsl(45, 30%, 20%);
  }
  .signature-block { flex: 1; font-size: 9pt; }
  .signature-line {
    border-bottom: 2px solid hsl(45, 100%, 60%);
    min-height: 50px;
    display: flex;
    align-items: flex-end;
    justify-content: center;
  }
  .signature-image { max-width: 180px; max-height: 45px; object-fit: contain; }
  .cover-image {
    max-width: 250px;
    max-height: 250px;
    display: block;
    margin: 15px auto;
    border: 1px solid hsl(45, 30%, 20%);
    object-fit: contain;
  }
  .contract-header, .articles-section, .article-8, .appendix { background: transparent; }
</style>
</head>
<body>
<div class="contract-header">
  <h1>Лицензионный договор № {{номер_договора}}</h1>
  <p><i>г. Москва, {{дата_заключения_договора}}</i></p>
  <p><strong>{{ФИО_ИП_полностью_кого}}</strong>, гражданство: {{graj}}, паспорт: {{PAS}},
  выступающий(ая) под творческим псевдонимом <strong>{{NIK}}</strong>, именуемый(ая) в дальнейшем
  «Лицензиар», с одной стороны, и Музыкальный лейбл «TUNEPORT», именуемый в дальнейшем
  «Лицензиат», с другой стороны, заключили настоящий договор о нижеследующем.</p>
</div>

<div class="articles-section">
  <h2>1. Предмет договора</h2>
  <p>1.1. Лицензиар предоставляет Лицензиату право использования фонограмм и произведений,
  перечисленных в Приложении № 1 к настоящему договору, на условиях исключительной лицензии
  на территории всего мира.</p>
  <p>1.2. Право использования включает воспроизведение, распространение, доведение до
  всеобщего сведения через цифровые площадки, а также включение в каталоги стриминговых
  сервисов.</p>

  <h2>2. Вознаграждение</h2>
  <p>2.1. Лицензиат выплачивает Лицензиару {{procc}} от дохода, полученного от
  использования фонограмм, за вычетом комиссий цифровых площадок.</p>
  <p>2.2. Выплаты производятся по реквизитам, указанным в разделе 8 настоящего договора,
  не реже одного раза в квартал.</p>

  <h2>3. Гарантии сторон</h2>
  <p>3.1. Лицензиар гарантирует, что обладает всеми правами на передаваемые фонограммы и
  произведения и что их использование не нарушает прав третьих лиц.</p>
  <p>3.2. Лицензиар гарантирует достоверность сведений об авторах музыки, текста и
  изготовителе фонограммы, указанных в Приложении № 1.</p>

  <h2>4. Срок действия</h2>
  <p>4.1. Договор вступает в силу с даты подписания и действует в течение трёх лет с
  автоматическим продлением на каждый следующий год, если ни одна из сторон не заявит об
  отказе не позднее чем за 30 дней до истечения срока.</p>

  <h2>5. Ответственность</h2>
  <p>5.1. За неисполнение обязательств стороны несут ответственность в соответствии с
  действующим законодательством.</p>

  <h2>6. Разрешение споров</h2>
  <p>6.1. Споры разрешаются путём переговоров, а при недостижении согласия — в суде по
  месту нахождения Лицензиата.</p>

  <h2>7. Прочие условия</h2>
  <p>7.1. Электронная подпись, проставленная Лицензиаром в портале, признаётся сторонами
  равнозначной собственноручной. Уведомления направляются на адрес электронной почты
  Лицензиара: {{mail}}.</p>
</div>

<div class="article-8">
  <h2>8. Реквизиты и подписи сторон</h2>
  <div class="signatures">
    <div class="signature-block">
      <p><strong>Лицензиар:</strong></p>
      <p>{{ФИО_ИП_полностью_кого}}</p>
      <p>Гражданство: {{graj}}</p>
      <p>Паспорт: {{PAS}}</p>
      <p>ИНН/SWIFT: {{ИНН_SWIFT}}</p>
      <p>{{РЕКВИЗИТЫ_БАНК}}</p>
      <p>Email: {{mail}}</p>
      <div class="signature-line">{{SIGNATURE_LICENSOR}}</div>
      <p style="text-align:center">{{ФИО_ИП_кратко}}</p>
    </div>
    <div class="signature-block">
      <p><strong>Лицензиат:</strong></p>
      <p>Музыкальный лейбл «TUNEPORT»</p>
      <div class="signature-line"></div>
      <p style="text-align:center">Генеральный директор</p>
    </div>
  </div>
</div>

<div class="appendix">
  <h2>Приложение № 1. Перечень фонограмм</h2>
  <p>Дата релиза: {{дата_релиза}}</p>
  <img class="cover-image" src="{{img}}" alt="Обложка релиза">
  <table>
    <tr>
      <th>Название</th>
      <th>Автор текста</th>
      <th>Композитор</th>
      <th>Изготовитель фонограммы</th>
      <th>Автор музыки</th>
      <th>Доля прав</th>
    </tr>
    {{TRACKS_TABLE}}
  </table>
</div>
</body>
</html>
`
