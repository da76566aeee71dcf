package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	texttemplate "text/template"
)

// Kind - тип письма.
type Kind string

const (
	KindWelcomeSeeker      Kind = "boas_vindas_colaborador"
	KindWelcomeCompany     Kind = "boas_vindas_empresa"
	KindAdminNewCompany    Kind = "admin_nova_empresa"
	KindApplicationSent    Kind = "candidatura_enviada"
	KindNewApplication     Kind = "nova_candidatura"
	KindApplicationAccept  Kind = "candidatura_aceita"
	KindApplicationDecline Kind = "candidatura_recusada"
	KindJobConfirmed       Kind = "trabalho_confirmado"
	KindCompanyApproved    Kind = "empresa_aprovada"
)

type emailTemplate struct {
	subject *texttemplate.Template
	body    *template.Template
}

// Rendered - готовое письмо.
type Rendered struct {
	Subject string
	HTML    string
}

const layout = `<!DOCTYPE html>
<html><head><meta charset="UTF-8"></head>
<body style="font-family: 'Segoe UI', Tahoma, sans-serif; background-color: #f8fafc; padding: 40px 20px;">
<div style="max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 16px;">
<div style="background: linear-gradient(135deg, #7c3aed 0%, #06b6d4 100%); padding: 32px; text-align: center; border-radius: 16px 16px 0 0;">
<h1 style="color: #ffffff; margin: 0;">{{.Platform}}</h1>
<p style="color: rgba(255,255,255,0.9); margin: 8px 0 0;">Freelance Universitário</p>
</div>
<div style="padding: 40px 32px; color: #475569; font-size: 16px; line-height: 1.6;">{{template "content" .}}</div>
<div style="background: #f1f5f9; padding: 24px 32px; text-align: center; font-size: 12px; color: #64748b; border-radius: 0 0 16px 16px;">
Este email foi enviado automaticamente pela plataforma {{.Platform}}.<br>{{.City}}
</div>
</div>
</body></html>`

var definitions = map[Kind][2]string{
	KindWelcomeSeeker: {
		`Bem-vindo(a) ao {{.Platform}}!`,
		`<h2>Bem-vindo(a), {{.Data.Name}}!</h2>
<p>Sua conta foi criada com sucesso. Complete seu perfil, navegue pelo mural e candidate-se aos trabalhos que combinam com você.</p>
<p><a href="{{.BaseURL}}/colaborador/mural">Ver oportunidades</a></p>`,
	},
	KindWelcomeCompany: {
		`Cadastro recebido - {{.Platform}}`,
		`<h2>Bem-vinda, {{.Data.Name}}!</h2>
<p>Recebemos seu cadastro. Nossa equipe vai analisar os dados e você será avisado por email assim que a empresa for aprovada.</p>`,
	},
	KindAdminNewCompany: {
		`Nova empresa aguardando aprovação: {{.Data.Company}}`,
		`<h2>Nova empresa cadastrada</h2>
<p><strong>{{.Data.Company}}</strong> (CNPJ {{.Data.CNPJ}}) aguarda aprovação.</p>
<p><a href="{{.BaseURL}}/admin/empresas">Revisar cadastro</a></p>`,
	},
	KindApplicationSent: {
		`Candidatura enviada: {{.Data.Title}}`,
		`<h2>Candidatura enviada!</h2>
<p>Olá {{.Data.Name}}, sua candidatura foi enviada com sucesso.</p>
<p><strong>{{.Data.Title}}</strong><br>{{.Data.Company}}<br>{{.Data.Date}}<br>R$ {{printf "%.2f" .Data.Pay}}</p>
<p>A empresa analisará seu perfil e você receberá uma resposta em breve.</p>`,
	},
	KindNewApplication: {
		`Nova candidatura: {{.Data.Title}}`,
		`<h2>Nova candidatura!</h2>
<p>Olá {{.Data.Company}}, {{.Data.Name}} se candidatou para <strong>{{.Data.Title}}</strong>.</p>
<p><a href="{{.BaseURL}}/empresa/trabalhos">Ver candidaturas</a></p>`,
	},
	KindApplicationAccept: {
		`Você foi selecionado: {{.Data.Title}}`,
		`<h2>Parabéns! Você foi selecionado!</h2>
<p>Olá {{.Data.Name}}, a empresa <strong>{{.Data.Company}}</strong> aceitou sua candidatura.</p>
<p><strong>{{.Data.Title}}</strong><br>{{.Data.Date}} das {{.Data.Window}}<br>{{.Data.Address}}<br>R$ {{printf "%.2f" .Data.Pay}}</p>`,
	},
	KindApplicationDecline: {
		`Atualização: {{.Data.Title}}`,
		`<h2>Atualização da sua candidatura</h2>
<p>Olá {{.Data.Name}}, infelizmente sua candidatura para <strong>{{.Data.Title}}</strong> não foi selecionada desta vez. Continue acompanhando o mural!</p>`,
	},
	KindJobConfirmed: {
		`Pagamento confirmado: {{.Data.Title}}`,
		`<h2>Trabalho confirmado!</h2>
<p>Olá {{.Data.Name}}, a empresa confirmou sua presença no trabalho <strong>{{.Data.Title}}</strong>.</p>
<p>Valor a receber: <strong>R$ {{printf "%.2f" .Data.NetPay}}</strong></p>`,
	},
	KindCompanyApproved: {
		`Empresa aprovada - {{.Platform}}`,
		`<h2>Empresa aprovada!</h2>
<p>Olá {{.Data.Name}}, seu cadastro foi aprovado. Você já pode publicar trabalhos no mural.</p>
<p><a href="{{.BaseURL}}/empresa/trabalhos/novo">Publicar trabalho</a></p>`,
	},
}

// Templates - набор разобранных шаблонов писем.
type Templates struct {
	byKind   map[Kind]emailTemplate
	platform string
	city     string
	baseURL  string
}

// NewTemplates разбирает все шаблоны. Ошибка означает ошибку в тексте шаблона.
func NewTemplates(platform, city, baseURL string) (*Templates, error) {
	base, err := template.New("layout").Parse(layout)
	if err != nil {
		return nil, fmt.Errorf("notify: parse layout: %w", err)
	}

	t := &Templates{byKind: make(map[Kind]emailTemplate, len(definitions)), platform: platform, city: city, baseURL: baseURL}
	for kind, def := range definitions {
		subject, err := texttemplate.New(string(kind)).Option("missingkey=zero").Parse(def[0])
		if err != nil {
			return nil, fmt.Errorf("notify: parse subject %s: %w", kind, err)
		}
		layoutCopy, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("notify: clone layout: %w", err)
		}
		body, err := layoutCopy.New("content").Parse(def[1])
		if err != nil {
			return nil, fmt.Errorf("notify: parse body %s: %w", kind, err)
		}
		t.byKind[kind] = emailTemplate{subject: subject, body: body.Lookup("layout")}
	}
	return t, nil
}

// Kinds возвращает список известных типов писем.
func (t *Templates) Kinds() []Kind {
	kinds := make([]Kind, 0, len(t.byKind))
	for k := range t.byKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Render подставляет data в шаблон kind.
func (t *Templates) Render(kind Kind, data map[string]any) (Rendered, error) {
	tmpl, ok := t.byKind[kind]
	if !ok {
		return Rendered{}, fmt.Errorf("notify: unknown template %q", kind)
	}

	view := map[string]any{
		"Platform": t.platform,
		"City":     t.city,
		"BaseURL":  t.baseURL,
		"Data":     data,
	}

	var subject, body bytes.Buffer
	if err := tmpl.subject.Execute(&subject, view); err != nil {
		return Rendered{}, fmt.Errorf("notify: render subject %s: %w", kind, err)
	}
	if err := tmpl.body.Execute(&body, view); err != nil {
		return Rendered{}, fmt.Errorf("notify: render body %s: %w", kind, err)
	}
	return Rendered{Subject: subject.String(), HTML: body.String()}, nil
}
