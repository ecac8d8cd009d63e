package moderation

// weightedTerm is a vocabulary entry scored by the context classifier when
// term occurs anywhere in the normalized message.
type weightedTerm struct {
	term   string
	weight int
}

// keywordPair flags a message when both keywords occur, in any order and at
// any distance.
type keywordPair [2]string

// contactVocabulary feeds contact_score. Direct contact and platform-evasion
// words weigh 8, meeting/location and external channels 5, the rest 2.
var contactVocabulary = []weightedTerm{
	{"telefono", 8},
	{"celular", 8},
	{"whatsapp", 8},
	{"wasap", 8},
	{"wsp", 8},
	{"llamame", 8},
	{"llamar", 8},
	{"marcame", 8},
	{"privado", 8},
	{"fuera", 8},
	{"telegram", 8},

	{"direccion", 5},
	{"nos vemos", 5},
	{"encontremos", 5},
	{"reunamos", 5},
	{"calle", 5},
	{"ubicacion", 5},
	{"domicilio", 5},
	{"gmail", 5},
	{"hotmail", 5},
	{"outlook", 5},
	{"correo", 5},
	{"instagram", 5},
	{"facebook", 5},
	{"tiktok", 5},

	{"contacto", 2},
	{"numero", 2},
	{"mensaje", 2},
	{"escribeme", 2},
	{"hablamos", 2},
	{"avisame", 2},
	{"en persona", 2},
	{"personalmente", 2},
}

// businessVocabulary feeds business_score. Strong transactional words weigh
// 6, size, time and quantity words 4, the rest 2.
var businessVocabulary = []weightedTerm{
	{"precio", 6},
	{"cuesta", 6},
	{"vendo", 6},
	{"vendemos", 6},
	{"stock", 6},
	{"valor", 6},
	{"oferta", 6},
	{"dolares", 6},
	{"descuento", 6},

	{"talla", 4},
	{"tamano", 4},
	{"medida", 4},
	{"dias", 4},
	{"horas", 4},
	{"semanas", 4},
	{"unidades disponibles", 4},
	{"envio", 4},
	{"entrega", 4},
	{"cantidad", 4},
	{"modelo", 4},
	{"color", 4},

	{"producto", 2},
	{"pedido", 2},
	{"articulo", 2},
	{"garantia", 2},
	{"factura", 2},
	{"marca", 2},
	{"nuevo", 2},
	{"usado", 2},
	{"disponible", 2},
	{"unidades", 2},
	{"compra", 2},
}

// contactRequestCombos are keyword pairs that only co-occur when someone is
// steering the conversation to another channel or a physical meeting.
var contactRequestCombos = []keywordPair{
	{"mandame", "facebook"},
	{"mandame", "instagram"},
	{"enviame", "facebook"},
	{"enviame", "instagram"},
	{"pasame", "facebook"},
	{"pasame", "instagram"},
	{"agregame", "facebook"},
	{"agregame", "instagram"},
	{"escribeme", "telegram"},
	{"llamame", "celular"},
	{"nos vemos", "calle"},
	{"encontremos", "calle"},
	{"nos vemos", "parque"},
	{"te espero", "esquina"},
}

// businessCombos mark plainly commercial messages for the strong business
// bonus.
var businessCombos = []keywordPair{
	{"vendo", "productos"},
	{"precio", "unidades"},
	{"stock", "disponible"},
	{"envio", "dias"},
	{"precio", "talla"},
}

// suspiciousPhrases hint at contact details being handed over.
var suspiciousPhrases = []string{
	"te dejo mi",
	"aqui esta mi",
	"aqui tienes mi",
	"este es mi",
	"escribeme al privado",
	"por privado",
	"mensaje privado",
	"por interno",
	"agregame",
}

// writtenNumbers are the spelled-out numerals counted by the written-number
// detector, already in normalized (accent-free) form.
var writtenNumbers = []string{
	"cero", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve",
	"diez", "once", "doce", "trece", "catorce", "quince",
	"dieciseis", "diecisiete", "dieciocho", "diecinueve",
	"veinte", "veintiuno", "veintidos", "veintitres", "veinticuatro",
	"veinticinco", "veintiseis", "veintisiete", "veintiocho", "veintinueve",
	"treinta", "cuarenta", "cincuenta", "sesenta", "setenta", "ochenta", "noventa",
	"cien", "ciento", "mil",
}
