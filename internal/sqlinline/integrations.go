package sqlinline

const QSelectIntegrationToken = `--sql 7c2e91b0-43d5-4a8f-b160-9f8a52e6d713
select token
from integration_tokens
where provider = $1::text
limit 1;
`

const QUpsertIntegrationToken = `--sql e5b8a4d7-2f91-4c36-8a05-d4c71b9e2f88
insert into integration_tokens (provider, token, updated_at)
values ($1::text, $2::text, now())
on conflict (provider)
do update set token = excluded.token, updated_at = now();
`
